package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"posbackend/internal/models"

	"github.com/redis/go-redis/v9"
)

// LowStockChannel is the Redis pub/sub channel low-stock alerts go to.
const LowStockChannel = "pos:alerts:low-stock"

// LowStockAlert is the message published for one tenant database.
type LowStockAlert struct {
	TenantDB  string                 `json:"tenantDb"`
	Items     []*models.LowStockItem `json:"items"`
	CheckedAt time.Time              `json:"checkedAt"`
}

// NotificationService fans operational alerts out to subscribers.
type NotificationService interface {
	PublishLowStock(ctx context.Context, dbName string, items []*models.LowStockItem) error
	Close() error
}

type notificationService struct {
	redisClient *redis.Client
	channel     string
	logger      *slog.Logger
	now         func() time.Time
}

// NewNotificationService publishes alerts through the Redis server at addr.
func NewNotificationService(redisAddr, redisPassword string, redisDB int, logger *slog.Logger) NotificationService {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     strings.TrimPrefix(strings.TrimPrefix(redisAddr, "redis://"), "rediss://"),
		Password: redisPassword,
		DB:       redisDB,
	})

	return &notificationService{
		redisClient: redisClient,
		channel:     LowStockChannel,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *notificationService) PublishLowStock(ctx context.Context, dbName string, items []*models.LowStockItem) error {
	if len(items) == 0 {
		return nil
	}
	payload, err := encodeLowStockAlert(dbName, items, s.now())
	if err != nil {
		return err
	}
	receivers, err := s.redisClient.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish low stock alert: %w", err)
	}
	s.logger.Debug("low stock alert published",
		slog.String("tenant_db", dbName),
		slog.Int64("receivers", receivers))
	return nil
}

func (s *notificationService) Close() error {
	return s.redisClient.Close()
}

func encodeLowStockAlert(dbName string, items []*models.LowStockItem, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(LowStockAlert{TenantDB: dbName, Items: items, CheckedAt: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode low stock alert: %w", err)
	}
	return payload, nil
}
