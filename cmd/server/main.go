package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpimentel/domino-dominicano/internal/config"
	"github.com/dpimentel/domino-dominicano/internal/logger"
	"github.com/dpimentel/domino-dominicano/internal/network/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("file logger unavailable: %v", err)
	} else {
		fmt.Printf("logging to %s\n", logger.GetLogPath())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	srv := server.NewServer(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		logger.Close()
		os.Exit(0)
	}()

	log.Println("🁢 domino server starting...")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
