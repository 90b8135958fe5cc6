package cmd

import (
	"fmt"
	"log/slog"
	"time"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/jwtauth"
	"fooddelivery/internal/adapters/out/kafka"
	"fooddelivery/internal/adapters/out/metrics"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/statsreader"
	redisadapter "fooddelivery/internal/adapters/out/redis"
	"fooddelivery/internal/adapters/out/telegram"
	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/jobs"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency and builds the use case handlers.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	history    *statsreader.Reader

	recorder   *metrics.Recorder
	dispatcher *notification.Dispatcher
	positions  *redisadapter.PositionStore
	events     *kafka.Publisher
	verifier   *jwtauth.Verifier
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	historyDB *sqlx.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	relay, err := telegram.NewRelay(telegram.Config{
		BaseURL:   cfg.TelegramAPIURL,
		Token:     cfg.TelegramBotToken,
		PerSecond: cfg.TelegramRatePerSec,
		Timeout:   cfg.NotifySendTimeout,
	})
	if err != nil {
		return nil, err
	}

	dispatcher, err := notification.NewDispatcher(relay, cfg.TelegramChannelIDs,
		notification.WithSendTimeout(cfg.NotifySendTimeout),
		notification.WithLogger(logger),
		notification.WithObserver(recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("notification dispatcher: %w", err)
	}

	verifier, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTLeeway)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		history:    statsreader.NewReader(historyDB),
		recorder:   recorder,
		dispatcher: dispatcher,
		positions:  redisadapter.NewPositionStore(redisClient, cfg.PositionTTL),
		events: kafka.NewPublisher(kafka.Config{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOrderChangedTopic,
			BatchTimeout: cfg.KafkaBatchTimeout,
		}, logger),
		verifier: verifier,
	}, nil
}

func (c *CompositionRoot) effects() commands.Effects {
	return commands.Effects{
		Notifier: c.dispatcher,
		Events:   c.events,
		Observer: c.recorder,
		Logger:   c.logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateLocationResolver() *location.Resolver {
	var f location.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() location.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return location.NewResolver(f, c.positions, c.dispatcher, c.cfg.LocationCaptureTimeout, c.logger)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uow(), c.effects())
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.uow(), c.CreateLocationResolver(), c.effects())
}

func (c *CompositionRoot) CreateFinalizeDeliveryCommandHandler() commands.FinalizeDeliveryCommandHandler {
	return commands.NewFinalizeDeliveryCommandHandler(c.uow(), c.effects())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoW(), c.effects())
}

func (c *CompositionRoot) CreateAdvanceKitchenStatusCommandHandler() commands.AdvanceKitchenStatusCommandHandler {
	return commands.NewAdvanceKitchenStatusCommandHandler(c.orderUoW(), c.effects())
}

func (c *CompositionRoot) CreateRecaptureDeliveryLocationCommandHandler() commands.RecaptureDeliveryLocationCommandHandler {
	return commands.NewRecaptureDeliveryLocationCommandHandler(c.uow(), c.effects())
}

func (c *CompositionRoot) CreateReportDriverPositionCommandHandler() commands.ReportDriverPositionCommandHandler {
	return commands.NewReportDriverPositionCommandHandler(c.positions)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverActiveOrdersQueryHandler() queries.GetDriverActiveOrdersQueryHandler {
	return queries.NewGetDriverActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderItemsQueryHandler() queries.GetOrderItemsQueryHandler {
	return queries.NewGetOrderItemsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderStatisticsQueryHandler() queries.GetOrderStatisticsQueryHandler {
	return queries.NewGetOrderStatisticsQueryHandler(c.history, time.Now)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		PlaceOrder:                c.CreatePlaceOrderCommandHandler(),
		AcceptOrder:               c.CreateAcceptOrderCommandHandler(),
		FinalizeDelivery:          c.CreateFinalizeDeliveryCommandHandler(),
		CancelOrder:               c.CreateCancelOrderCommandHandler(),
		AdvanceKitchenStatus:      c.CreateAdvanceKitchenStatusCommandHandler(),
		RecaptureDeliveryLocation: c.CreateRecaptureDeliveryLocationCommandHandler(),
		ReportDriverPosition:      c.CreateReportDriverPositionCommandHandler(),
		AvailableOrders:           c.CreateGetAvailableOrdersQueryHandler(),
		DriverActiveOrders:        c.CreateGetDriverActiveOrdersQueryHandler(),
		CustomerOrders:            c.CreateGetCustomerOrdersQueryHandler(),
		OrderItems:                c.CreateGetOrderItemsQueryHandler(),
		OrderStatistics:           c.CreateGetOrderStatisticsQueryHandler(),
	}, c.verifier, c.recorder, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	jm := jobs.NewJobManager()
	jm.Register("statistics_report", jobs.NewStatisticsReportJob(
		c.history,
		c.dispatcher,
		c.recorder,
		services.Window(c.cfg.StatsReportWindowDays),
		c.cfg.StatsReportSchedule,
		c.logger,
	))
	return jm
}

// Close flushes the event writer.
func (c *CompositionRoot) Close() error {
	return c.events.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncDeliveryUoWFactory func() location.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() location.DeliveryUoW {
	return f()
}
