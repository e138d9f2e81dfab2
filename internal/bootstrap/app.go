package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/generative-ai-go/genai"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"sitedocs/internal/config"
	"sitedocs/internal/model"
	"sitedocs/internal/platform/mysql"
	"sitedocs/internal/platform/rabbitmq"
	"sitedocs/internal/platform/redis"
	"sitedocs/internal/session"
	"sitedocs/internal/storage"
)

// App holds every process-wide dependency. MySQL and redis are hard
// requirements; the broker and the AI client are optional and their
// absence only narrows behavior (no events, no analysis).
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *goredis.Client
	MQConn    *amqp.Connection
	Gemini    *genai.Client
	Blobs     storage.Store
	Sessions  *session.Store
	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := mysql.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Document{},
		&model.Annotation{},
		&model.Note{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	var mqConn *amqp.Connection
	if cfg.RabbitMQ.URL != "" {
		mqConn, err = rabbitmq.New(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("rabbitmq url not set, lifecycle events disabled")
	}

	var geminiClient *genai.Client
	if cfg.Gemini.APIKey != "" {
		geminiClient, err = genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
		if err != nil {
			return nil, fmt.Errorf("init gemini client failed: %w", err)
		}
	} else {
		log.Println("gemini api key not set, document analysis disabled")
	}

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init blob storage failed: %w", err)
	}

	sessions := session.NewStore(
		redisClient,
		cfg.Auth.SessionSecret,
		time.Duration(cfg.Auth.SessionTTLMinute)*time.Minute,
	)

	return &App{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		MQConn:    mqConn,
		Gemini:    geminiClient,
		Blobs:     blobs,
		Sessions:  sessions,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() {
	if a.Gemini != nil {
		if err := a.Gemini.Close(); err != nil {
			log.Printf("close gemini client failed: %v", err)
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			log.Printf("close rabbitmq failed: %v", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("close redis failed: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("close mysql failed: %v", err)
			}
		}
	}
}
