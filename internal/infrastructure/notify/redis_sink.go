package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

var _ Sink = (*RedisSink)(nil)

// RedisSink publica los intents como JSON en un canal de Redis (PUBLISH).
// Los consumidores de entrega (UI, push, email) se suscriben a ese canal.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink construye el sink sobre el cliente dado.
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// Deliver serializa el intent y lo publica en el canal.
func (s *RedisSink) Deliver(ctx context.Context, intent entity.NotificationIntent) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("serializar intent: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar intent: %w", err)
	}
	return nil
}
