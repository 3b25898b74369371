package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"stashplexagent/config"
	"stashplexagent/provider"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("  Stash Plex Metadata Provider")
	fmt.Println("===========================================")
	fmt.Println()

	cfg := config.Load(config.DefaultPath)

	log.Printf("✅ Stash host: %s", cfg.StashHost)
	log.Printf("✅ Agent base URL: %s", cfg.AgentBaseURL)
	log.Printf("✅ Cache TTL: %v (≤0 disables)", cfg.CacheTTL)
	if cfg.PosterMode {
		log.Println("✅ Poster mode enabled (2:3 letterboxed artwork)")
	}
	if cfg.Debug {
		log.Println("✅ Debug logging enabled")
	}

	agent := NewStashPlexAgent(cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort),
		Handler:      provider.LoggingMiddleware(agent.addon, cfg.Debug),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Listening on %s...", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-sigChan
	gracefulShutdown(server, agent)
}

func gracefulShutdown(server *http.Server, agent *StashPlexAgent) {
	log.Println("🛑 Starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	} else {
		log.Println("✅ HTTP server stopped")
	}

	if agent.uploader != nil {
		log.Println("🛑 Stopping poster uploader...")
		agent.uploader.StopAndWait()
	}

	log.Println("✅ Graceful shutdown complete")
}
