package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expense-backoffice/internal/logger"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// Init Redis'e bağlanır. addr boşsa önbellek kapalıdır ve tüm çağrılar
// no-op olur.
func Init(addr, password string, db int) error {
	log := logger.WithComponent("cache")
	if addr == "" {
		log.Info().Msg("REDIS_ADDR tanımlı değil, önbellek kapalı")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis'e bağlanılamadı: %w", err)
	}

	rdb = client
	log.Info().Str("addr", addr).Msg("Redis bağlantısı başarılı")
	return nil
}

func Enabled() bool {
	return rdb != nil
}

func Close() error {
	if rdb == nil {
		return nil
	}
	err := rdb.Close()
	rdb = nil
	return err
}

// GetObject anahtardaki JSON'u dest'e çözer. Kayıt yoksa ya da önbellek
// kapalıysa false döner.
func GetObject(ctx context.Context, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetObject(ctx context.Context, key string, obj any, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, exp).Err()
}

func Delete(ctx context.Context, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// DeleteMatching desene uyan anahtarları SCAN ile bulup siler.
func DeleteMatching(ctx context.Context, pattern string) error {
	if rdb == nil {
		return nil
	}
	var keys []string
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return Delete(ctx, keys...)
}
