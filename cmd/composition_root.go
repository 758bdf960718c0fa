package cmd

import (
	"courierflow/internal/adapters/in/amqp"
	httpin "courierflow/internal/adapters/in/http"
	"courierflow/internal/adapters/out/postgres"
	"courierflow/internal/adapters/out/postgres/orderrepo"
	"courierflow/internal/adapters/out/realtime"
	"courierflow/internal/adapters/out/redisbus"
	"courierflow/internal/core/application/notifications"
	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/services"
	"courierflow/internal/core/ports"
	"courierflow/internal/jobs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     services.CancellationPolicy
	hub        *realtime.Hub
	relay      *redisbus.Relay
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewCompositionRoot wires the core to its adapters. With a Redis client, notifications
// travel through Redis and a relay feeds the local hub; without one they go to the hub
// directly.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, redisClient redis.UniversalClient, logger *zap.Logger) (*CompositionRoot, error) {
	policy, err := services.NewCancellationPolicy(cfg.PenaltyRate)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(realtime.DefaultBufferSize, logger)
	var (
		transport ports.RealtimeTransport = hub
		relay     *redisbus.Relay
	)
	if redisClient != nil {
		transport = redisbus.NewPublisher(redisClient, cfg.RedisChannel)
		relay = redisbus.NewRelay(redisClient, cfg.RedisChannel, hub, logger)
	}

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		policy:     policy,
		hub:        hub,
		relay:      relay,
		publisher:  notifications.NewDispatcher(transport, logger),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) Hub() *realtime.Hub { return c.hub }

// Relay is nil when notifications are not shared through Redis.
func (c *CompositionRoot) Relay() *redisbus.Relay { return c.relay }

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.cfg.DeliveryFee)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uowFactoryAll(), c.publisher)
}

func (c *CompositionRoot) CreateSetReadyForPickupCommandHandler() commands.SetReadyForPickupCommandHandler {
	return commands.NewSetReadyForPickupCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAdvanceDriverStatusCommandHandler() commands.AdvanceDriverStatusCommandHandler {
	return commands.NewAdvanceDriverStatusCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	return commands.NewRateOrderCommandHandler(c.uowFactoryAll())
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePublishLocationCommandHandler() commands.PublishLocationCommandHandler {
	return commands.NewPublishLocationCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateExpireUnpaidOrdersCommandHandler() commands.ExpireUnpaidOrdersCommandHandler {
	return commands.NewExpireUnpaidOrdersCommandHandler(c.orderUoWFactory(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		AssignDriver:        c.CreateAssignDriverCommandHandler(),
		SetReadyForPickup:   c.CreateSetReadyForPickupCommandHandler(),
		AdvanceDriverStatus: c.CreateAdvanceDriverStatusCommandHandler(),
		ConfirmDelivery:     c.CreateConfirmDeliveryCommandHandler(),
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		RateOrder:           c.CreateRateOrderCommandHandler(),
		ConfirmPayment:      c.CreateConfirmPaymentCommandHandler(),
		PublishLocation:     c.CreatePublishLocationCommandHandler(),
		CreateCourier:       c.CreateCreateCourierCommandHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		GetActiveOrders:     c.CreateGetActiveOrdersQueryHandler(),
		GetAllCouriers:      c.CreateGetAllCouriersQueryHandler(),
	}, c.hub, []byte(c.cfg.JWTSecret), c.cfg.SSEKeepAlive, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	expiry := jobs.NewUnpaidOrderExpiryJob(
		c.CreateExpireUnpaidOrdersCommandHandler(),
		c.cfg.UnpaidOrderTTL,
		c.cfg.UnpaidOrderSweep,
		c.cfg.ExpiryBatchSize,
		c.logger,
	)
	return jobs.NewJobManager(expiry, c.hub, c.logger)
}

// CreatePaymentConsumer returns nil when no broker is configured.
func (c *CompositionRoot) CreatePaymentConsumer() *amqp.PaymentConsumer {
	if c.cfg.AMQPURL == "" {
		return nil
	}
	return amqp.NewPaymentConsumer(c.cfg.AMQPURL, c.cfg.AMQPPaymentQueue, c.CreateConfirmPaymentCommandHandler(), c.logger)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
