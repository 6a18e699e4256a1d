package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"

	"github.com/yourusername/project-hub/internal/api/handlers"
	mw "github.com/yourusername/project-hub/internal/api/middleware"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/auth"
	"github.com/yourusername/project-hub/pkg/config"
	"github.com/yourusername/project-hub/pkg/logger"
)

// Server представляет HTTP сервер API
type Server struct {
	router     chi.Router
	logger     logger.Logger
	config     *config.Config
	jwtManager *auth.JWTManager
	services   *Services
	rateRedis  *redis.Client
}

// Services содержит все сервисы для обработчиков API
type Services struct {
	UserService         *service.UserService
	ProjectService      *service.ProjectService
	SprintService       *service.SprintService
	TaskService         *service.TaskService
	CommentService      *service.CommentService
	StatsService        *service.StatsService
	NotificationService *service.NotificationService
}

// NewServer создает новый экземпляр сервера API.
// rateRedis может быть nil, тогда ограничитель запросов работает в памяти.
func NewServer(cfg *config.Config, log logger.Logger, jwtManager *auth.JWTManager, services *Services, rateRedis *redis.Client) *Server {
	server := &Server{
		router:     chi.NewRouter(),
		logger:     log,
		config:     cfg,
		jwtManager: jwtManager,
		services:   services,
		rateRedis:  rateRedis,
	}
	server.setupRoutes()
	return server
}

// Handler возвращает корневой HTTP-обработчик сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.services.UserService, s.logger)
	userHandler := handlers.NewUserHandler(s.services.UserService, s.logger)
	projectHandler := handlers.NewProjectHandler(s.services.ProjectService, s.services.StatsService, s.logger)
	sprintHandler := handlers.NewSprintHandler(s.services.SprintService, s.services.StatsService, s.logger)
	taskHandler := handlers.NewTaskHandler(s.services.TaskService, s.logger)
	commentHandler := handlers.NewCommentHandler(s.services.CommentService, s.logger)
	notificationHandler := handlers.NewNotificationHandler(s.services.NotificationService, s.logger)
	dashboardHandler := handlers.NewDashboardHandler(s.services.StatsService, s.logger)

	authMiddleware := mw.NewAuthMiddleware(s.jwtManager, s.logger)
	loggingMiddleware := mw.NewLoggingMiddleware(s.logger)
	rateLimiter := mw.NewRateLimiter(mw.RateLimiterConfig{
		Limit:  100,
		Period: time.Minute,
	}, s.rateRedis, s.logger)

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(60 * time.Second))
	s.router.Use(rateLimiter.Limit)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		// Публичные маршруты
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.Refresh)
		})

		// Защищенные маршруты
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/{id}", userHandler.GetByID)
				r.Put("/{id}", userHandler.Update)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/{id}", projectHandler.GetByID)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
				r.Get("/{id}/stats", projectHandler.GetStats)
				r.Get("/{id}/team", projectHandler.GetTeam)
				r.Post("/{id}/team", projectHandler.AddTeamMember)
				r.Delete("/{id}/team/{userID}", projectHandler.RemoveTeamMember)
				r.Get("/{id}/sprints", sprintHandler.ListByProject)
			})

			r.Route("/sprints", func(r chi.Router) {
				r.Post("/", sprintHandler.Create)
				r.Get("/{id}", sprintHandler.GetByID)
				r.Put("/{id}", sprintHandler.Update)
				r.Delete("/{id}", sprintHandler.Delete)
				r.Get("/{id}/stats", sprintHandler.GetStats)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.GetByID)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
				r.Post("/{id}/transition", taskHandler.TransitionStatus)
				r.Post("/{id}/time", taskHandler.LogTime)
				r.Get("/{id}/time", taskHandler.GetTimeLogs)
				r.Get("/{id}/comments", commentHandler.ListByTask)
				r.Post("/{id}/comments", commentHandler.Create)
			})

			r.Delete("/comments/{commentID}", commentHandler.Delete)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread", notificationHandler.CountUnread)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			r.Get("/dashboard/stats", dashboardHandler.GetStats)
		})
	})
}
