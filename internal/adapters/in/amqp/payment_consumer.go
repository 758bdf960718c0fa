// Package amqp consumes payment confirmation signals from RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultPaymentQueue = "payment_confirmations"

// PaymentSignal is the message body published by the payment collaborator.
type PaymentSignal struct {
	OrderID   string `json:"order_id"`
	Confirmed bool   `json:"confirmed"`
}

type ConfirmPaymentHandler interface {
	Handle(ctx context.Context, command commands.ConfirmPaymentCommand) (*order.Order, error)
}

type disposition int

const (
	ack disposition = iota + 1
	reject
	requeue
)

type PaymentConsumer struct {
	url      string
	queue    string
	prefetch int
	handler  ConfirmPaymentHandler
	logger   *zap.Logger
}

func NewPaymentConsumer(url, queue string, handler ConfirmPaymentHandler, logger *zap.Logger) *PaymentConsumer {
	if queue == "" {
		queue = DefaultPaymentQueue
	}
	return &PaymentConsumer{
		url:      url,
		queue:    queue,
		prefetch: 16,
		handler:  handler,
		logger:   logger.With(zap.String("component", "payment_consumer"), zap.String("queue", queue)),
	}
}

// Run consumes until ctx is done or the broker connection drops.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err = ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx,
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.logger.Info("payment consumer started")

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("payment consumer stopped")
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return nil
			}
			return fmt.Errorf("rabbitmq connection closed: %w", amqpErr)
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.settle(d, c.process(ctx, d.Body))
		}
	}
}

func (c *PaymentConsumer) settle(d amqp.Delivery, outcome disposition) {
	var err error
	switch outcome {
	case ack:
		err = d.Ack(false)
	case reject:
		err = d.Reject(false)
	case requeue:
		err = d.Nack(false, true)
	}
	if err != nil {
		c.logger.Warn("delivery not settled", zap.Error(err))
	}
}

// process applies one signal. Malformed messages are rejected, rejections of the core
// are acknowledged since retrying cannot change them, and anything else is requeued.
func (c *PaymentConsumer) process(ctx context.Context, body []byte) disposition {
	var signal PaymentSignal
	if err := json.Unmarshal(body, &signal); err != nil {
		c.logger.Warn("malformed payment signal", zap.Error(err))
		return reject
	}

	logger := c.logger.With(zap.String("order_id", signal.OrderID), zap.Bool("confirmed", signal.Confirmed))

	orderID, err := kernel.UUIDFromString(signal.OrderID)
	if err != nil {
		logger.Warn("payment signal without a valid order id", zap.Error(err))
		return reject
	}
	cmd, err := commands.NewConfirmPaymentCommand(orderID, signal.Confirmed)
	if err != nil {
		logger.Warn("payment signal rejected", zap.Error(err))
		return reject
	}

	o, err := c.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		logger.Info("payment status applied", zap.String("payment_status", o.PaymentStatus().String()))
		return ack
	case errors.Is(err, errs.ErrConflict) && !errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrObjectNotFound),
		errs.IsValidationError(err):
		logger.Warn("payment signal not applicable", zap.Error(err))
		return ack
	default:
		logger.Error("payment signal failed, requeueing", zap.Error(err))
		return requeue
	}
}
