package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Relay delivers envelopes from the channel to the local transport.
type Relay struct {
	client  redis.UniversalClient
	channel string
	local   ports.RealtimeTransport
	logger  *zap.Logger
}

func NewRelay(client redis.UniversalClient, channel string, local ports.RealtimeTransport, logger *zap.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		client:  client,
		channel: channel,
		local:   local,
		logger:  logger.With(zap.String("component", "redis_relay"), zap.String("channel", channel)),
	}
}

// Run blocks until ctx is done or the subscription fails.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}
	r.logger.Info("relay subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			if err := r.dispatch(ctx, []byte(msg.Payload)); err != nil {
				r.logger.Warn("envelope not relayed", zap.Error(err))
			}
		}
	}
}

func (r *Relay) dispatch(ctx context.Context, data []byte) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Audience {
	case AudienceDispatchers:
		return r.local.BroadcastToDispatchers(ctx, env.Event, env.Payload)
	case AudienceUser, AudienceOrder:
		target, err := kernel.UUIDFromString(env.Target)
		if err != nil {
			return err
		}
		if env.Audience == AudienceUser {
			return r.local.SendToUser(ctx, target, env.Event, env.Payload)
		}
		return r.local.SendToOrderChannel(ctx, target, env.Event, env.Payload)
	case AudienceLeave:
		orderID, err := kernel.UUIDFromString(env.Target)
		if err != nil {
			return err
		}
		userID, err := kernel.UUIDFromString(env.User)
		if err != nil {
			return err
		}
		return r.local.LeaveOrderChannel(ctx, orderID, userID)
	default:
		return fmt.Errorf("unknown audience %q", env.Audience)
	}
}
