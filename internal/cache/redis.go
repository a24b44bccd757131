package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/constants"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/models"
)

// RedisCache keeps the capped recent-events list, the live Pub/Sub feed, and
// the trading kill switch.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCache connects to Redis at addr.
func NewRedisCache(addr string, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		logger: logger,
	}
}

// AddRecentArb pushes an event onto the recent list, trimming it to the cap.
func (r *RedisCache) AddRecentArb(ctx context.Context, event *models.ArbEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal arb event: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentArbs, data)
	pipe.LTrim(ctx, constants.RedisKeyRecentArbs, 0, constants.MaxRecentArbs-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store recent arb: %w", err)
	}
	return nil
}

// GetRecentArbs returns up to limit most recent events, newest first.
func (r *RedisCache) GetRecentArbs(ctx context.Context, limit int64) ([]*models.ArbEvent, error) {
	if limit <= 0 || limit > constants.MaxRecentArbs {
		limit = constants.MaxRecentArbs
	}

	raw, err := r.client.LRange(ctx, constants.RedisKeyRecentArbs, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent arbs: %w", err)
	}

	events := make([]*models.ArbEvent, 0, len(raw))
	for _, item := range raw {
		var event models.ArbEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			r.logger.WithError(err).Warn("skipping malformed arb event in cache")
			continue
		}
		events = append(events, &event)
	}
	return events, nil
}

// PublishArb publishes an event to the live channel.
func (r *RedisCache) PublishArb(ctx context.Context, event *models.ArbEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal arb event: %w", err)
	}
	if err := r.client.Publish(ctx, constants.PubSubChannelArbs, data).Err(); err != nil {
		return fmt.Errorf("failed to publish arb event: %w", err)
	}
	return nil
}

// SubscribeArbs subscribes to the live channel. The returned channel closes
// when ctx is cancelled.
func (r *RedisCache) SubscribeArbs(ctx context.Context) (<-chan *models.ArbEvent, error) {
	pubsub := r.client.Subscribe(ctx, constants.PubSubChannelArbs)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *models.ArbEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.ArbEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.logger.WithError(err).Warn("skipping malformed arb event on channel")
					continue
				}
				select {
				case out <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// TradingEnabled reads the kill switch. A missing key means enabled, so a
// fresh Redis never blocks the bot.
func (r *RedisCache) TradingEnabled(ctx context.Context) (bool, error) {
	val, err := r.client.Get(ctx, constants.RedisKeyTradingSwitch).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read trading switch: %w", err)
	}
	return val != "0", nil
}

// SetTradingEnabled flips the kill switch.
func (r *RedisCache) SetTradingEnabled(ctx context.Context, enabled bool) error {
	val := "1"
	if !enabled {
		val = "0"
	}
	if err := r.client.Set(ctx, constants.RedisKeyTradingSwitch, val, 0).Err(); err != nil {
		return fmt.Errorf("failed to set trading switch: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
