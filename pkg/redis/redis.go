package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwlim/finstat-backend/config"
	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ratioSummaryTTL 비율 요약 캐시 유지 시간
// 재무제표는 연 단위로 갱신되므로 길게 잡아도 무방하다
const ratioSummaryTTL = 6 * time.Hour

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func ratioSummaryKey(corpName string) string {
	return fmt.Sprintf("ratio_summary:%s", corpName)
}

// CacheRatioSummary 회사별 비율 요약을 캐시에 저장
// Redis 미사용(client nil) 시 조용히 건너뛴다
func CacheRatioSummary(corpName string, summaries []model.RatioSummary) {
	if client == nil {
		return
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		logger.Error("Failed to marshal ratio summary for cache", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Set(ctx, ratioSummaryKey(corpName), data, ratioSummaryTTL).Err(); err != nil {
		logger.Warn("Failed to cache ratio summary", map[string]interface{}{
			"corp_name": corpName,
			"error":     err.Error(),
		})
	}
}

// GetCachedRatioSummary 캐시된 비율 요약 조회
func GetCachedRatioSummary(corpName string) ([]model.RatioSummary, bool) {
	if client == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := client.Get(ctx, ratioSummaryKey(corpName)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Failed to read ratio summary cache", map[string]interface{}{
			"corp_name": corpName,
			"error":     err.Error(),
		})
		return nil, false
	}

	var summaries []model.RatioSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		logger.Error("Failed to unmarshal cached ratio summary", err, nil)
		return nil, false
	}

	return summaries, true
}

// InvalidateRatioSummary 비율 갱신 시 캐시 무효화
func InvalidateRatioSummary(corpName string) {
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Del(ctx, ratioSummaryKey(corpName)).Err(); err != nil {
		logger.Warn("Failed to invalidate ratio summary cache", map[string]interface{}{
			"corp_name": corpName,
			"error":     err.Error(),
		})
	}
}
