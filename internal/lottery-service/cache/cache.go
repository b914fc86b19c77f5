package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda visões derivadas (ganhadores, estatísticas) com TTL curto.
// São apenas caches de recomputação: a fonte de verdade segue no Postgres
// e o settlement-worker sobrescreve as chaves a cada publicação.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func KeyWinners(date string) string { return "lottery:winners:" + date }
func KeyStats(date string) string   { return "lottery:stats:" + date }

const KeyRecentWinners = "lottery:recent_winners"

func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.R.Del(ctx, keys...).Err()
}
