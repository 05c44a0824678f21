package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"volunteerHub/internal/assist"
	"volunteerHub/internal/cache"
	"volunteerHub/internal/config"
	"volunteerHub/internal/handlers"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/middleware"
	"volunteerHub/internal/realtime"
	"volunteerHub/internal/repository/inmemory"
	"volunteerHub/internal/repository/postgres"
	"volunteerHub/internal/service"
	"volunteerHub/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	worker    *worker.RefreshWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает все зависимости приложения: хранилище, realtime-канал,
// кэш задач, сервисы и маршруты.
func (a *App) Init(ctx context.Context) error {

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	storage, health, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	events, subscriber, err := a.initRealtime()
	if err != nil {
		return err
	}

	taskCache := cache.NewTaskCache()

	taskService := service.NewTaskService(storage.Tasks, storage.Profiles, taskCache, events)
	volunteerService := service.NewVolunteerService(storage.Volunteers, storage.Tasks, storage.Profiles, events)
	messageService := service.NewMessageService(storage.Messages, &volunteerService, events)
	feedbackService := service.NewFeedbackService(storage.Feedback, storage.Tasks, &volunteerService)
	profileService := service.NewProfileService(storage.Profiles, events)

	// кэш обновляется из realtime-канала, без Redis работаем напрямую с БД
	if subscriber != nil {
		a.worker = worker.NewRefreshWorker(storage.Tasks, subscriber, taskCache, nil)
	}

	taskHandler := handlers.NewTaskHandler(&taskService, health)
	volunteerHandler := handlers.NewVolunteerHandler(&volunteerService)
	messageHandler := handlers.NewMessageHandler(&messageService)
	feedbackHandler := handlers.NewFeedbackHandler(&feedbackService)
	profileHandler := handlers.NewProfileHandler(&profileService)
	assistHandler := handlers.NewAssistHandler(assist.NewClient(a.config.Assist.URL))

	a.router = a.buildRouter(taskHandler, volunteerHandler, messageHandler, feedbackHandler, profileHandler, assistHandler)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

// storageSet — набор репозиториев поверх одного хранилища
type storageSet struct {
	Tasks      service.TaskRepository
	Profiles   service.ProfileRepository
	Volunteers service.VolunteerRepository
	Messages   service.MessageRepository
	Feedback   service.FeedbackRepository
}

func (a *App) initStorage(ctx context.Context) (*storageSet, handlers.HealthChecker, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к postgres: %w", err)
		}

		if err := storage.Migrate(); err != nil {
			storage.Close()
			return nil, nil, fmt.Errorf("применение миграций: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений с БД...")
			storage.Close()
		})

		logger.Info("Репозиторий: postgres")
		return &storageSet{
			Tasks:      storage,
			Profiles:   storage,
			Volunteers: storage,
			Messages:   storage,
			Feedback:   storage,
		}, storage, nil

	case "inmemory", "":
		storage := inmemory.NewStorage()
		logger.Info("Репозиторий: inmemory")
		return &storageSet{
			Tasks:      storage,
			Profiles:   storage,
			Volunteers: storage,
			Messages:   storage,
			Feedback:   storage,
		}, storage, nil

	default:
		return nil, nil, fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}
}

func (a *App) initRealtime() (realtime.Publisher, worker.Subscriber, error) {
	if !a.config.Redis.Enabled {
		logger.Info("Realtime: отключён, события не публикуются")
		return realtime.NopPublisher{}, nil, nil
	}

	notifier, err := realtime.NewNotifier(a.config.Redis.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("подключение к redis: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие соединения с Redis...")
		notifier.Close()
	})

	logger.Info("Realtime: подключён")
	return notifier, notifier, nil
}

func (a *App) buildRouter(
	taskHandler handlers.TaskHandler,
	volunteerHandler handlers.VolunteerHandler,
	messageHandler handlers.MessageHandler,
	feedbackHandler handlers.FeedbackHandler,
	profileHandler handlers.ProfileHandler,
	assistHandler handlers.AssistHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))

	secret := a.config.Auth.JWTSecret

	r.Route("/tasks", func(r chi.Router) {
		// просмотр задач доступен и без сессии
		r.With(middleware.OptionalAuth(secret)).Get("/", taskHandler.ListTasks) // GET /tasks

		r.With(middleware.Auth(secret)).Post("/", taskHandler.PostTask)           // POST /tasks
		r.With(middleware.Auth(secret)).Get("/best-match", taskHandler.BestMatch) // GET /tasks/best-match

		r.Route("/{id}", func(r chi.Router) {
			r.With(middleware.OptionalAuth(secret)).Get("/", taskHandler.GetTaskByID) // GET /tasks/{id}

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(secret))

				r.Put("/", taskHandler.UpdateTaskByID)        // PUT /tasks/{id}
				r.Post("/cancel", taskHandler.CancelTask)     // POST /tasks/{id}/cancel
				r.Post("/complete", taskHandler.CompleteTask) // POST /tasks/{id}/complete

				r.Post("/offer", volunteerHandler.PostOffer)          // POST /tasks/{id}/offer
				r.Delete("/offer", volunteerHandler.WithdrawOffer)    // DELETE /tasks/{id}/offer
				r.Get("/offer", volunteerHandler.GetOfferStatus)      // GET /tasks/{id}/offer
				r.Get("/volunteers", volunteerHandler.ListVolunteers) // GET /tasks/{id}/volunteers

				r.Get("/messages", messageHandler.ListMessages) // GET /tasks/{id}/messages
				r.Post("/messages", messageHandler.PostMessage) // POST /tasks/{id}/messages

				r.Post("/feedback", feedbackHandler.PostFeedback) // POST /tasks/{id}/feedback
			})
		})
	})

	r.Route("/volunteers/{id}", func(r chi.Router) {
		r.Use(middleware.Auth(secret))

		r.Post("/accept", volunteerHandler.AcceptVolunteer) // POST /volunteers/{id}/accept
		r.Post("/reject", volunteerHandler.RejectVolunteer) // POST /volunteers/{id}/reject
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(secret))

			r.Get("/me", profileHandler.GetMyProfile) // GET /profiles/me
			r.Put("/me", profileHandler.PutMyProfile) // PUT /profiles/me
		})

		r.Get("/{id}", profileHandler.GetProfile)              // GET /profiles/{id}
		r.Get("/{id}/feedback", feedbackHandler.ListFeedback)  // GET /profiles/{id}/feedback
	})

	r.With(middleware.Auth(secret)).Post("/assist/structure", assistHandler.StructureTask)

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run запускает фонового воркера и HTTP-сервер, блокируется до отмены контекста
func (a *App) Run(ctx context.Context) error {
	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown()
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP-сервера: %w", err)
	}
}

// Shutdown останавливает сервер и освобождает ресурсы в обратном порядке
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if a.server != nil {
		err = a.server.Shutdown(shutdownCtx)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return err
}
