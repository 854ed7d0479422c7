package kvstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// Redis keeps each key as a plain Redis string with no expiry.
type Redis struct {
	Client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

func (r *Redis) Get(key string) (string, bool, error) {
	v, err := r.Client.Get(context.TODO(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(key, value string) error {
	return r.Client.Set(context.TODO(), key, value, 0).Err()
}

func (r *Redis) Delete(key string) error {
	return r.Client.Del(context.TODO(), key).Err()
}
