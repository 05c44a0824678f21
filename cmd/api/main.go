package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"volunteerHub/internal/app"
	"volunteerHub/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// .env необязателен, в проде всё приходит из окружения
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("чтение конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		log.Fatalf("инициализация приложения: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("остановка приложения: %v", err)
	}
}
