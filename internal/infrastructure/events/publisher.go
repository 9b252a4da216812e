// Package events fans out order changes to other terminals of a shop.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	OrderCreated       = "order.created"
	OrderCancelled     = "order.cancelled"
	OrderStatusChanged = "order.status_changed"
	InventoryAdjusted  = "inventory.adjusted"
)

// Event is the payload published after a committed change
type Event struct {
	Type        string           `json:"type"`
	ShopID      uuid.UUID        `json:"shop_id"`
	OrderID     *uuid.UUID       `json:"order_id,omitempty"`
	OrderNumber string           `json:"order_number,omitempty"`
	Status      enum.OrderStatus `json:"status,omitempty"`
	TotalAmount money.Money      `json:"total_amount,omitempty"`
	ProductID   *uuid.UUID       `json:"product_id,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Channel returns the pub/sub channel for a shop
func Channel(shopID uuid.UUID) string {
	return "eazyque:shop:" + shopID.String() + ":orders"
}

// RedisPublisher publishes events on Redis Pub/Sub
type RedisPublisher struct {
	client *redis.Client
	log    *logrus.Entry
}

// NewRedisPublisher connects to Redis and pings it once.
func NewRedisPublisher(ctx context.Context, addr, password string, db int, log *logrus.Entry) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 20,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.WithField("addr", addr).Info("connected to redis")
	return &RedisPublisher{client: client, log: log}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, Channel(event.ShopID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher drops every event; used when Redis is not configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
