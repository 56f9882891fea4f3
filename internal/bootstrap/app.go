package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/StutiiiG/readai/internal/ai"
	appsvc "github.com/StutiiiG/readai/internal/app"
	"github.com/StutiiiG/readai/internal/cache"
	"github.com/StutiiiG/readai/internal/config"
	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/pkg/extract"
	"github.com/StutiiiG/readai/internal/platform/blob"
	mysqlClient "github.com/StutiiiG/readai/internal/platform/mysql"
	rabbitmqClient "github.com/StutiiiG/readai/internal/platform/rabbitmq"
	redisClient "github.com/StutiiiG/readai/internal/platform/redis"
	"github.com/StutiiiG/readai/internal/repository"
	"github.com/StutiiiG/readai/internal/worker"
)

// App owns every process-wide client: constructed once at startup, injected
// into the services that need it, closed at shutdown.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	SessionService  *appsvc.SessionService
	FileService     *appsvc.FileService
	ChatService     *appsvc.ChatService
	TurnEventWorker *worker.TurnEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.StoredFile{},
		&model.Message{},
		&model.TurnEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(mysqlDB)
	messageRepo := repository.NewMessageRepository(mysqlDB)
	fileRepo := repository.NewFileRepository(mysqlDB)
	turnEventRepo := repository.NewTurnEventRepository(mysqlDB)

	historyCache := cache.NewHistoryCache(
		redisCli,
		time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	eventPublisher := rabbitmqClient.NewTurnEventPublisher(mqConn, cfg.RabbitMQ.TurnEventQueue)
	eventWorker := worker.NewTurnEventWorker(mqConn, turnEventRepo, cfg.RabbitMQ.TurnEventQueue, logger)
	if err := eventWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start turn event worker failed: %w", err)
	}

	extractor := extract.New(blobs, logger)
	llmClient := ai.NewClient(ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	generator := appsvc.NewGenerator(llmClient, logger)

	sessionService := appsvc.NewSessionService(sessionRepo, messageRepo, fileRepo, blobs, historyCache, logger)
	fileService := appsvc.NewFileService(sessionRepo, fileRepo, blobs, logger)
	chatService := appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		fileRepo,
		extractor,
		generator,
		historyCache,
		eventPublisher,
		cfg.LLM.MaxHistory,
		logger,
	)

	return &App{
		Config:          cfg,
		Logger:          logger,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		SessionService:  sessionService,
		FileService:     fileService,
		ChatService:     chatService,
		TurnEventWorker: eventWorker,
		StartedAt:       time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.TurnEventWorker != nil {
		a.TurnEventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" || env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
