package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/roombook/reservation-service/internal/entity"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(id int64) string {
	return "reservation:" + strconv.FormatInt(id, 10)
}

func (r *CacheRepository) SetReservation(ctx context.Context, reservation *entity.Reservation) error {
	data, err := json.Marshal(reservation)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, cacheKey(reservation.ID), data, r.ttl).Err()
}

func (r *CacheRepository) GetReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var reservation entity.Reservation
	err = json.Unmarshal([]byte(data), &reservation)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *CacheRepository) DeleteReservation(ctx context.Context, id int64) error {
	return r.client.Del(ctx, cacheKey(id)).Err()
}
