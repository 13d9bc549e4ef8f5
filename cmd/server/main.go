package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flowpulse-docparse/internal/config"
	"flowpulse-docparse/internal/handler"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()

	authMiddleware := handler.AnonymousMiddleware
	if container.AuthEnabled() {
		authMiddleware = handler.NewAuthMiddleware(container.AuthService, container.Logger).Middleware
	} else {
		container.Logger.Warn("Supabase not configured: authentication disabled, documents kept in memory")
	}

	// Router
	router := handler.NewRouter(
		handler.NewAuthHandler(container.Logger),
		handler.NewDocumentHandler(container.DocumentService, container.Logger, container.Config.GetMaxFileSize()),
		authMiddleware,
		container.Config.GetAllowedOrigins(),
	)

	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), container.Config.GetExtractTimeout()+5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}
