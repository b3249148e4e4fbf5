package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
)

func main() {
	log.Println("app starting")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	application, err := app.NewApp(configPath)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	go func() {
		if err := application.ListenAndServe(); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("app stopped")
}
