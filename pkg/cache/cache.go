package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/pkg/logger"
)

const pingTimeout = 3 * time.Second

// InitRedis 按配置创建 redis 客户端并 ping 一次；不可达时关闭客户端返回错误
func InitRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", rc.Addr, err)
	}

	logger.Info("redis ready", zap.String("addr", rc.Addr), zap.Int("db", rc.DB))
	return client, nil
}
