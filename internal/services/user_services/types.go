// File: internal/services/user_services/types.go
package user_services

// Logger interface for all user services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Notifier is the sink for user-visible events raised by these services.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Severity mirrors the notification severities the presentation layer knows.
type Severity = string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
