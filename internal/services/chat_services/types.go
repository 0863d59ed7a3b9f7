// File: internal/services/chat_services/types.go
package chat_services

import (
	"math/rand"
	"sync"
	"time"
)

// Logger interface for all chat services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Notifier is the sink for user-visible events raised by these services.
type Notifier interface {
	Notify(message string, severity string)
}

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Clock abstracts time.Now so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler abstracts delayed execution. The production implementation is
// time.AfterFunc; tests substitute a synchronous fake.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules on real timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// Rand is the entropy source driving the simulation. Injectable so tests can
// run with a fixed seed.
type Rand interface {
	Intn(n int) int
}

// LockedRand guards a seeded rand.Rand; timer callbacks may hit it from
// multiple goroutines.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}
