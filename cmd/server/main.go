// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/neochat/neochat/internal/config"
	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/handlers"
	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/repository/chat"
	"github.com/neochat/neochat/internal/repository/contact"
	"github.com/neochat/neochat/internal/repository/message"
	"github.com/neochat/neochat/internal/repository/prefs"
	"github.com/neochat/neochat/internal/repository/user"
	"github.com/neochat/neochat/internal/services"
	"github.com/neochat/neochat/internal/services/chat_services"
	"github.com/neochat/neochat/internal/services/settings_services"
	"github.com/neochat/neochat/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("neochat")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &contact.Contact{}, &prefs.Blob{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	chatRepo := chat.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)
	contactRepo := contact.NewContactRepository(db)
	prefsRepo := prefs.NewPrefsRepository(db)

	// --- Services ---
	broadcaster := services.NewBroadcaster()

	directory := user_services.NewDirectoryService(userRepo, contactRepo, logger)
	authService := user_services.NewAuthService(directory, cfg.JWTSecretKey, logger)
	session := user_services.NewSessionService(directory, prefsRepo, broadcaster, logger)
	session.Restore(context.Background())

	chatStore := chat_services.NewChatService(chatRepo, messageRepo, contactRepo, userRepo, logger, chat_services.SystemClock{})
	controller := chat_services.NewChatController(
		chatStore,
		directory,
		broadcaster,
		logger,
		chat_services.TimerScheduler{},
		chat_services.NewLockedRand(time.Now().UnixNano()),
		func() string {
			if u := session.CurrentUser(); u != nil {
				return u.Username
			}
			return ""
		},
	)
	controller.SetReplyDelay(
		time.Duration(cfg.ReplyDelayMinMS)*time.Millisecond,
		time.Duration(cfg.ReplyDelayMaxMS)*time.Millisecond,
	)
	controller.SetPresenceFlipPercent(cfg.PresenceFlipPct)

	settingsService := settings_services.NewSettingsService(prefsRepo, chatStore, broadcaster, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, session)
	userHandler := handlers.NewUserHandler(directory, session)
	chatHandler := handlers.NewChatHandler(chatStore, controller)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	eventsHandler := handlers.NewEventsHandler(broadcaster)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/logout", authHandler.Logout).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/users/search", userHandler.Search).Methods("GET")
	api.HandleFunc("/users", userHandler.GetUser).Methods("GET")
	api.HandleFunc("/profile", userHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.StartChat).Methods("POST")
	api.HandleFunc("/chats/unread", chatHandler.UnreadCount).Methods("GET")
	api.HandleFunc("/chats/read-all", chatHandler.MarkAllRead).Methods("POST")
	api.HandleFunc("/chats/{id}/messages", chatHandler.GetMessages).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id}/open", chatHandler.OpenChat).Methods("POST")
	api.HandleFunc("/chats/{id}/read", chatHandler.MarkRead).Methods("POST")
	api.HandleFunc("/chats/{id}/pin", chatHandler.PinChat).Methods("POST")
	api.HandleFunc("/chats/close", chatHandler.CloseChat).Methods("POST")
	api.HandleFunc("/settings", settingsHandler.GetSettings).Methods("GET")
	api.HandleFunc("/settings", settingsHandler.SaveSettings).Methods("PUT")
	api.HandleFunc("/settings/reset", settingsHandler.ResetSettings).Methods("POST")
	api.HandleFunc("/settings/clear-history", settingsHandler.ClearHistory).Methods("POST")
	api.HandleFunc("/profile/customization", settingsHandler.GetProfile).Methods("GET")
	api.HandleFunc("/profile/customization", settingsHandler.SaveProfile).Methods("PUT")
	api.HandleFunc("/events", eventsHandler.Stream).Methods("GET")

	// --- Background Simulation ---
	stopSim := make(chan struct{})
	go func() {
		incoming := time.NewTicker(time.Duration(cfg.IncomingIntervalMS) * time.Millisecond)
		presence := time.NewTicker(time.Duration(cfg.PresenceIntervalMS) * time.Millisecond)
		defer incoming.Stop()
		defer presence.Stop()
		for {
			select {
			case <-stopSim:
				return
			case <-incoming.C:
				controller.SimulateIncomingMessage(context.Background())
			case <-presence.C:
				controller.UpdatePresenceTick(context.Background())
			}
		}
	}()

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "db", cfg.DatabasePath)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	close(stopSim)
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
