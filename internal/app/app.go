package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskMaster/internal/config"
	"taskMaster/internal/handlers"
	"taskMaster/internal/logger"
	"taskMaster/internal/middleware"
	"taskMaster/internal/monitor"
	"taskMaster/internal/notifier"
	"taskMaster/internal/repository/task/inmemory"
	"taskMaster/internal/repository/task/postgres"
	"taskMaster/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// taskStorage - всё, что нужно от хранилища сервису и монитору
type taskStorage interface {
	service.TaskRepository
	monitor.TaskStore
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	storage   taskStorage
	monitor   *monitor.Monitor
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initStorage(ctx); err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}

	a.monitor = monitor.New(a.storage, notifier.NewLogNotifier(), monitor.SystemClock(), a.config.Monitor.Interval)
	a.shutdowns = append(a.shutdowns, a.monitor.Stop)

	a.initRouter(ctx)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return err
		}

		storage, err := postgres.New(ctx, a.config.Database.URL)
		if err != nil {
			return err
		}
		a.storage = storage
		a.shutdowns = append(a.shutdowns, storage.Close)
	default:
		a.storage = inmemory.NewTaskStorage()
	}
	return nil
}

func (a *App) initRouter(ctx context.Context) {
	taskService := service.NewTaskService(a.storage)
	taskHandler := handlers.NewTaskHandler(&taskService, nil)
	sessionHandler := handlers.NewSessionHandler(a.monitor, ctx)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
	}))

	r.Get("/health", taskHandler.HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetTasks)  // GET /tasks
			r.Post("/", taskHandler.PostTask) // POST /tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
				r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
				r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
			})
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/", sessionHandler.OpenSession)    // POST /session
			r.Delete("/", sessionHandler.CloseSession) // DELETE /session
		})
	})

	a.router = r
}

// Run блокирует до отмены контекста, затем гасит всё в обратном порядке
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("работа сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
