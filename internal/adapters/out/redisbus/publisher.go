package redisbus

import (
	"context"
	"encoding/json"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

var _ ports.RealtimeTransport = (*Publisher)(nil)

// DefaultPublishTimeout bounds one PUBLISH, independent of the caller's deadline.
const DefaultPublishTimeout = 250 * time.Millisecond

type Publisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
}

type PublisherOption func(*Publisher)

// WithPublishTimeout overrides DefaultPublishTimeout. Non-positive values are ignored.
func WithPublishTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewPublisher expects a client built with ContextTimeoutEnabled, otherwise
// socket I/O ignores the per-publish deadline.
func NewPublisher(client redis.UniversalClient, channel string, opts ...PublisherOption) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	p := &Publisher{client: client, channel: channel, timeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) SendToUser(ctx context.Context, userID kernel.UUID, event string, payload any) error {
	return p.publish(ctx, AudienceUser, &userID, event, payload)
}

func (p *Publisher) BroadcastToDispatchers(ctx context.Context, event string, payload any) error {
	return p.publish(ctx, AudienceDispatchers, nil, event, payload)
}

func (p *Publisher) SendToOrderChannel(ctx context.Context, orderID kernel.UUID, event string, payload any) error {
	return p.publish(ctx, AudienceOrder, &orderID, event, payload)
}

func (p *Publisher) LeaveOrderChannel(ctx context.Context, orderID, userID kernel.UUID) error {
	msg, err := json.Marshal(Envelope{Audience: AudienceLeave, Target: orderID.String(), User: userID.String()})
	if err != nil {
		return err
	}
	return p.send(ctx, msg)
}

func (p *Publisher) publish(ctx context.Context, audience Audience, target *kernel.UUID, event string, payload any) error {
	msg, err := newEnvelope(audience, target, event, payload)
	if err != nil {
		return err
	}
	return p.send(ctx, msg)
}

// send detaches from the caller's cancellation and applies its own deadline.
func (p *Publisher) send(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	return p.client.Publish(ctx, p.channel, msg).Err()
}
