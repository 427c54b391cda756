package app

import (
	"api_recommender/internal/api/middlew"
	"api_recommender/internal/repository/postgres"
	"api_recommender/pkg/logger"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"api_recommender/internal/api/handlers"
	"api_recommender/internal/config"
	"api_recommender/internal/db"
	"api_recommender/internal/recommender"
	"api_recommender/internal/rpc"
	"api_recommender/internal/server"
	"api_recommender/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

type App struct {
	log    *slog.Logger
	cfg    *config.Config
	server *server.Server
	pool   *pgxpool.Pool
	amqp   *amqp.Connection
	api    chi.Router
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}

	log := logger.NewLogger(cfg.LogFile)
	log.Info("инициализация приложения")
	log.Info("конфигурация загружена", slog.String("port", cfg.HTTPPort))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), "migrations"); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	log.Info("миграции успешно применены")

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	amqpConn, err := amqp.Dial(cfg.Rabbit.URL())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к брокеру: %w", err)
	}
	log.Info("подключение к брокеру установлено", slog.String("queue", cfg.Rabbit.TaskQueue))

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))

	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)

	a := &App{
		log:    log,
		cfg:    cfg,
		server: srv,
		pool:   pool,
		amqp:   amqpConn,
	}
	a.mountAPI()
	return a, nil
}

// mountAPI монтирует общий префикс /api/v1 ровно один раз: повторный
// Route по тому же шаблону приводит к панике chi. Слои регистрируют
// свои маршруты на уже смонтированном сабрутере.
func (a *App) mountAPI() {
	a.api = a.server.Router.Route("/api/v1", func(chi.Router) {})
}

func (a *App) BuildWalletLayer() {
	walletRepo := postgres.NewWalletRepository(a.pool)
	walletService := service.NewWalletService(walletRepo, a.log)
	walletHandler := handlers.NewWalletHandler(walletService)

	a.api.Get("/wallets/{walletID}", walletHandler.GetWalletByID)
	a.api.Get("/wallets/{walletID}/transactions", walletHandler.GetTransactions)
	a.api.Post("/wallet", walletHandler.ApplyOperation)
	a.api.Post("/users/{userID}/wallet", walletHandler.CreateWallet)

	a.log.Info("слой 'wallet' собран и маршруты зарегистрированы")
}

func (a *App) BuildPredictionLayer() {
	rpcClient := rpc.NewClient(a.amqp, a.cfg.Rabbit.TaskQueue,
		time.Duration(a.cfg.RPCTimeout)*time.Second)

	var embedder recommender.Recommender
	// Локальный эмбеддер в API используется только для отладки без воркера;
	// боевой вариант — RPC к ml-сервису.
	if a.cfg.Embedder == "local" {
		embedder = recommender.NewLocal(a.cfg.EmbeddingDim)
	} else {
		embedder = recommender.NewRemote(rpcClient)
	}

	userRepo := postgres.NewUserRepository(a.pool)
	walletRepo := postgres.NewWalletRepository(a.pool)
	predictionRepo := postgres.NewPredictionRepository(a.pool)
	movieRepo := postgres.NewMovieRepository(a.pool)

	predictionService := service.NewPredictionService(
		userRepo, walletRepo, predictionRepo, movieRepo, embedder, a.log)
	predictionHandler := handlers.NewPredictionHandler(predictionService)

	a.api.Post("/predictions", predictionHandler.NewPrediction)
	a.api.Get("/users/{userID}/predictions", predictionHandler.GetHistory)

	a.log.Info("слой 'prediction' собран и маршруты зарегистрированы")
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	a.log.Info("закрытие соединения с брокером")
	if err := a.amqp.Close(); err != nil {
		a.log.Error("ошибка при закрытии соединения с брокером", slog.String("error", err.Error()))
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("приложение остановлено")
	return nil
}
