package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	ClusterAddrs []string
}

// NewRedis returns a cluster client when cluster addresses are configured,
// otherwise a single-node client.
func NewRedis(config RedisConfig) (redis.UniversalClient, error) {
	if len(config.ClusterAddrs) > 0 {
		cluster, err := NewRedisCluster(config.ClusterAddrs, config.Password)
		if err != nil {
			return nil, err
		}
		return cluster, nil
	}
	client, err := NewRedisClient(config)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func NewRedisClient(config RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	zap.S().Infof("Redis connected: %s", pong)

	return rdb, nil
}

func NewRedisCluster(addrs []string, password string) (*redis.ClusterClient, error) {
	rdb := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:    addrs,
		Password: password,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis cluster: %w", err)
	}
	zap.S().Infof("Redis Cluster connected: %s", pong)

	return rdb, nil
}
