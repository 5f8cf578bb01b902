// Package notify fans support and order events out over redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-system/internal/database/models"
)

const (
	AdminChannel       = "support:admins"
	userChannelPrefix  = "support:user:"
	orderChannelPrefix = "orders:events:"
	OrderChannelAll    = "orders:events:all"

	EventOrderCreated = "order.created"
	EventOrderDeleted = "order.deleted"
)

// Notifier delivers support payloads to the admin group or to one user.
type Notifier interface {
	NotifyAdmins(ctx context.Context, payload interface{}) error
	NotifyUser(ctx context.Context, userID uuid.UUID, payload interface{}) error
}

// OrderPublisher announces order lifecycle events.
type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

type OrderEvent struct {
	EventType   string          `json:"eventType"`
	OrderKind   string          `json:"orderKind"`
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNo     string          `json:"orderNo"`
	PartyID     uuid.UUID       `json:"partyId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	LineCount   int             `json:"lineCount"`
	Timestamp   time.Time       `json:"timestamp"`
}

func UserChannel(userID uuid.UUID) string {
	return userChannelPrefix + userID.String()
}

// RoleChannel is the group channel for a role; admins share AdminChannel.
func RoleChannel(role string) string {
	if role == models.RoleAdmin {
		return AdminChannel
	}
	return "support:role:" + role
}

func OrderChannel(eventType string) string {
	return orderChannelPrefix + eventType
}

type RedisNotifier struct {
	redis redis.UniversalClient
}

func NewRedisNotifier(client redis.UniversalClient) *RedisNotifier {
	return &RedisNotifier{redis: client}
}

func (n *RedisNotifier) NotifyAdmins(ctx context.Context, payload interface{}) error {
	return n.publish(ctx, AdminChannel, payload)
}

func (n *RedisNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	return n.publish(ctx, UserChannel(userID), payload)
}

func (n *RedisNotifier) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if err := n.publish(ctx, OrderChannel(event.EventType), event); err != nil {
		return err
	}
	return n.publish(ctx, OrderChannelAll, event)
}

func (n *RedisNotifier) publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.redis.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe opens a subscription on the given channels. Callers must close
// the returned PubSub.
func (n *RedisNotifier) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return n.redis.Subscribe(ctx, channels...)
}
