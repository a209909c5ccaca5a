package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/qlearning-rl/types"
)

// RedisStore keeps the weights of one agent in a redis hash
// Fields are feature names and values are decimal floats
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ types.WeightStore = &RedisStore{}

func NewRedisStore(addr, key string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 100 * time.Millisecond,
		}),
		key: key,
	}
}

// LoadWeights wraps types.ErrMissingPersistedState when the hash is absent, empty or undecodable
// and when the server cannot be reached
func (r *RedisStore) LoadWeights(ctx context.Context) (map[string]float64, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis %s: %s: %w", r.key, err, types.ErrMissingPersistedState)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("redis %s: empty hash: %w", r.key, types.ErrMissingPersistedState)
	}
	weights := make(map[string]float64, len(fields))
	for f, v := range fields {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("redis %s: field %s: %s: %w", r.key, f, err, types.ErrMissingPersistedState)
		}
		weights[f] = val
	}
	return weights, nil
}

// SaveWeights replaces the stored hash with the given weights
func (r *RedisStore) SaveWeights(ctx context.Context, weights map[string]float64) error {
	values := make([]interface{}, 0, 2*len(weights))
	for f, v := range weights {
		values = append(values, f, strconv.FormatFloat(v, 'g', -1, 64))
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.HSet(ctx, r.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis %s: saving weights: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
