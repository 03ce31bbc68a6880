package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "docmanager/internal/app"
	"docmanager/internal/cache"
	"docmanager/internal/config"
	"docmanager/internal/model"
	mysqlClient "docmanager/internal/platform/mysql"
	rabbitmqClient "docmanager/internal/platform/rabbitmq"
	redisClient "docmanager/internal/platform/redis"
	"docmanager/internal/repository"
	"docmanager/internal/seeder"
	"docmanager/internal/storage"
	"docmanager/internal/worker"
)

type App struct {
	Config          *config.Config
	MySQL           *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	Files           *storage.LocalStore
	IngestionWorker *worker.IngestionWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Document{}, &model.Ingestion{}); err != nil {
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

	files, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(mysqlDB)
	if cfg.Seed.Enabled {
		if err := seeder.New(userRepo).Seed(); err != nil {
			return nil, fmt.Errorf("seed users failed: %w", err)
		}
	}

	var ingestionWorker *worker.IngestionWorker
	if cfg.RabbitMQ.ConsumerEnabled {
		docRepo := repository.NewDocumentRepository(mysqlDB)
		ingestionRepo := repository.NewIngestionRepository(mysqlDB)
		statusCache := cache.NewIngestionStatusCache(redisCli, time.Duration(cfg.Redis.StatusTTLSeconds)*time.Second)
		tracker := appsvc.NewIngestionService(ingestionRepo, docRepo, nil, statusCache)

		ingestionWorker = worker.NewIngestionWorker(mqConn, tracker, cfg.RabbitMQ.IngestionQueue)
		if err := ingestionWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start ingestion worker failed: %w", err)
		}
	}

	return &App{
		Config:          cfg,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		Files:           files,
		IngestionWorker: ingestionWorker,
		StartedAt:       time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.IngestionWorker != nil {
		a.IngestionWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
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
	return closeErr
}
