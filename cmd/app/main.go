package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/config"
	"github.com/nkarpov/timebox-api/internal/handler"
	"github.com/nkarpov/timebox-api/internal/repo"
	"github.com/nkarpov/timebox-api/internal/service"
	"github.com/nkarpov/timebox-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Выбор хранилища: память по умолчанию, Postgres при заданном DATABASE_URL
	var (
		listRepo repo.TaskListRepository
		taskRepo repo.TaskRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to Database.")
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal("Failed to ping the Database.")
		}
		logger.Info("Successfully connected to the Database!")

		pg := repo.NewPostgresStore(pool)
		listRepo, taskRepo = pg.TaskLists(), pg.Tasks()
	} else {
		store := repo.NewStore()
		listRepo, taskRepo = store.TaskLists(), store.Tasks()
		logger.Info("Using in-memory storage, state resets on restart")
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(), logger)
	listHandler := handler.NewTaskListHandler(service.NewTaskListService(listRepo), logger)
	taskHandler := handler.NewTaskHandler(service.NewTaskService(taskRepo), logger)

	r := handler.NewRouter(authHandler, listHandler, taskHandler)

	// Монитор просрочки: опрос таймеров раз в интервал
	monitor := worker.NewMonitor(taskRepo, logger, cfg.MonitorInterval)
	monitor.Start(context.Background())

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
