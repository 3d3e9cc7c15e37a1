// internal/transport/redis.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"live-service/internal/model"
)

// Redis carries envelopes over a single pub/sub channel shared by every
// server process. go-redis re-establishes the subscription itself after a
// broken connection, so a backbone outage degrades delivery to local-only
// and recovers without restarting the process.
type Redis struct {
	client   *redis.Client
	channel  string
	logger   *zap.Logger
	degraded atomic.Bool
	pubsub   *redis.PubSub
}

func NewRedis(client *redis.Client, channel string, logger *zap.Logger) *Redis {
	return &Redis{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (t *Redis) Publish(ctx context.Context, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := t.client.Publish(ctx, t.channel, data).Err(); err != nil {
		if t.degraded.CompareAndSwap(false, true) {
			t.logger.Warn("fan-out backbone unreachable, serving local connections only",
				zap.String("channel", t.channel),
				zap.Error(err))
		}
		return fmt.Errorf("%w: %v", model.ErrBackboneUnavailable, err)
	}

	if t.degraded.CompareAndSwap(true, false) {
		t.logger.Info("fan-out backbone recovered", zap.String("channel", t.channel))
	}
	return nil
}

func (t *Redis) Subscribe(ctx context.Context, fn func(*model.Envelope)) error {
	t.pubsub = t.client.Subscribe(ctx, t.channel)

	// Confirm the subscription before serving traffic.
	if _, err := t.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackboneUnavailable, err)
	}

	go func() {
		for msg := range t.pubsub.Channel() {
			var env model.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				t.logger.Warn("dropping undecodable backbone message", zap.Error(err))
				continue
			}
			fn(&env)
		}
	}()

	return nil
}

func (t *Redis) Close() error {
	if t.pubsub != nil {
		return t.pubsub.Close()
	}
	return nil
}
