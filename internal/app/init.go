package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/project-hub/internal/messaging"
	"github.com/yourusername/project-hub/internal/repository"
	rediscache "github.com/yourusername/project-hub/internal/repository/cache"
	"github.com/yourusername/project-hub/internal/repository/postgres"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/auth"
	"github.com/yourusername/project-hub/pkg/cache"
	"github.com/yourusername/project-hub/pkg/config"
	"github.com/yourusername/project-hub/pkg/database"
	"github.com/yourusername/project-hub/pkg/logger"
)

// Repositories содержит все репозитории для работы с хранилищами данных
type Repositories struct {
	UserRepository         repository.UserRepository
	ProjectRepository      repository.ProjectRepository
	SprintRepository       repository.SprintRepository
	TaskRepository         repository.TaskRepository
	CommentRepository      repository.CommentRepository
	NotificationRepository repository.NotificationRepository
	CacheRepository        *rediscache.RedisRepository
}

// Services содержит все сервисы приложения
type Services struct {
	UserService         *service.UserService
	ProjectService      *service.ProjectService
	SprintService       *service.SprintService
	TaskService         *service.TaskService
	CommentService      *service.CommentService
	StatsService        *service.StatsService
	NotificationService *service.NotificationService
}

// Application содержит все компоненты приложения
type Application struct {
	Config       *config.Config
	Logger       logger.Logger
	DB           *sqlx.DB
	Redis        *cache.RedisClient
	JWTManager   *auth.JWTManager
	Producer     *messaging.KafkaProducer
	Repositories *Repositories
	Services     *Services
}

// NewApplication создает приложение с инициализированными компонентами
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	producer := initProducer(cfg, log)
	repos := initRepositories(db, redisClient)
	services := initServices(repos, jwtManager, producer, log)

	return &Application{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Redis:        redisClient,
		JWTManager:   jwtManager,
		Producer:     producer,
		Repositories: repos,
		Services:     services,
	}, nil
}

// Close закрывает все соединения с внешними сервисами
func (app *Application) Close() {
	if app.Producer != nil {
		if err := app.Producer.Close(); err != nil {
			app.Logger.Error("Error closing Kafka producer", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Error closing PostgreSQL connection", err)
		}
	}
}

// initRepositories создает репозитории поверх PostgreSQL и Redis
func initRepositories(db *sqlx.DB, redisClient *cache.RedisClient) *Repositories {
	return &Repositories{
		UserRepository:         postgres.NewUserRepository(db),
		ProjectRepository:      postgres.NewProjectRepository(db),
		SprintRepository:       postgres.NewSprintRepository(db),
		TaskRepository:         postgres.NewTaskRepository(db),
		CommentRepository:      postgres.NewCommentRepository(db),
		NotificationRepository: postgres.NewNotificationRepository(db),
		CacheRepository:        rediscache.NewRedisRepository(redisClient),
	}
}

// initServices собирает слой сервисов поверх репозиториев
func initServices(repos *Repositories, jwtManager *auth.JWTManager, producer *messaging.KafkaProducer, log logger.Logger) *Services {
	return &Services{
		UserService: service.NewUserService(repos.UserRepository, jwtManager, log),
		ProjectService: service.NewProjectService(
			repos.ProjectRepository,
			repos.UserRepository,
			repos.TaskRepository,
			repos.SprintRepository,
			repos.CacheRepository,
			producer,
			log,
		),
		SprintService: service.NewSprintService(
			repos.SprintRepository,
			repos.ProjectRepository,
			repos.TaskRepository,
			repos.CacheRepository,
			producer,
			log,
		),
		TaskService: service.NewTaskService(
			repos.TaskRepository,
			repos.ProjectRepository,
			repos.SprintRepository,
			repos.CommentRepository,
			repos.UserRepository,
			repos.CacheRepository,
			producer,
			log,
		),
		CommentService: service.NewCommentService(
			repos.CommentRepository,
			repos.TaskRepository,
			repos.UserRepository,
			producer,
			log,
		),
		StatsService: service.NewStatsService(
			repos.TaskRepository,
			repos.ProjectRepository,
			repos.SprintRepository,
			repos.CacheRepository,
			log,
		),
		NotificationService: service.NewNotificationService(repos.NotificationRepository, log),
	}
}

// initProducer настраивает продюсера Kafka с маршрутизацией событий по топикам
func initProducer(cfg *config.Config, log logger.Logger) *messaging.KafkaProducer {
	topics := map[string]string{
		messaging.EventTypeTaskCreated:       cfg.Kafka.Topics.TaskEvents,
		messaging.EventTypeTaskUpdated:       cfg.Kafka.Topics.TaskEvents,
		messaging.EventTypeTaskTransitioned:  cfg.Kafka.Topics.TaskEvents,
		messaging.EventTypeTaskTimeLogged:    cfg.Kafka.Topics.TaskEvents,
		messaging.EventTypeProjectCreated:    cfg.Kafka.Topics.ProjectEvents,
		messaging.EventTypeProjectUpdated:    cfg.Kafka.Topics.ProjectEvents,
		messaging.EventTypeTeamMemberAdded:   cfg.Kafka.Topics.ProjectEvents,
		messaging.EventTypeTeamMemberRemoved: cfg.Kafka.Topics.ProjectEvents,
		messaging.EventTypeSprintCreated:     cfg.Kafka.Topics.SprintEvents,
		messaging.EventTypeSprintDeleted:     cfg.Kafka.Topics.SprintEvents,
		messaging.EventTypeCommentAdded:      cfg.Kafka.Topics.TaskEvents,
		messaging.EventTypeNotification:      cfg.Kafka.Topics.Notifications,
	}
	return messaging.NewKafkaProducer(cfg.Kafka.Brokers, topics, log)
}
