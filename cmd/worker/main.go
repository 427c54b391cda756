package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"api_recommender/internal/config"
	"api_recommender/internal/recommender"
	"api_recommender/internal/worker"
	"api_recommender/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка инициализации конфига: %v", err)
	}

	logg := logger.NewLogger(cfg.LogFile)
	logg.Info("инициализация воркера", slog.String("queue", cfg.Rabbit.TaskQueue))

	conn, err := amqp.Dial(cfg.Rabbit.URL())
	if err != nil {
		log.Fatalf("Ошибка подключения к брокеру: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Ошибка открытия канала: %v", err)
	}
	defer ch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder := recommender.NewLocal(cfg.EmbeddingDim)
	w := worker.New(ch, cfg.Rabbit.TaskQueue, embedder, logg)

	if err := w.Run(ctx); err != nil {
		log.Fatalf("Ошибка при работе воркера: %v", err)
	}
	logg.Info("воркер остановлен")
}
