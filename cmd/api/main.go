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

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-extractor/internal/config"
	"github.com/justsurfingit/job-extractor/internal/handlers"
	"github.com/justsurfingit/job-extractor/internal/services"
)

func main() {
	// 1. Load .env + environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Load the recognizer once; the server never starts without it
	log.Printf("Loading %s (%s backend)...", services.NERModel, cfg.NERBackend)
	recognizer, err := services.NewRecognizer(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to load entity recognizer: ", err)
	}

	// 3. Services and handlers
	jobService := services.NewJobService(recognizer)
	jobHandler := handlers.NewJobHandler(jobService)

	// 4. Router, CORS and routes
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(jobHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.NERTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Server starting on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: ", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown failed: ", err)
	}
	log.Println("Server stopped")
}
