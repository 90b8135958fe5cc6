// Package http exposes the order workflow over a JSON API.
//
// Every request may carry "Authorization: Bearer <access token>". The token is verified
// once by the auth middleware and the resulting identity.Actor is handed to the command
// or query handler explicitly. Handlers decide themselves whether an anonymous actor is
// acceptable, so the middleware only rejects tokens that are present but invalid.
package http

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// Use case contracts. The concrete command and query handlers satisfy them.
type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	}
	AcceptOrderHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (commands.AcceptOrderResult, error)
	}
	FinalizeDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.FinalizeDeliveryCommand) (*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	AdvanceKitchenStatusHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceKitchenStatusCommand) (*order.Order, error)
	}
	RecaptureDeliveryLocationHandler interface {
		Handle(ctx context.Context, cmd commands.RecaptureDeliveryLocationCommand) (*delivery.Delivery, error)
	}
	ReportDriverPositionHandler interface {
		Handle(ctx context.Context, cmd commands.ReportDriverPositionCommand) error
	}

	AvailableOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.OrderSummary, error)
	}
	DriverActiveOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetDriverActiveOrdersQuery) ([]queries.OrderSummary, error)
	}
	CustomerOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderSummary, error)
	}
	OrderItemsHandler interface {
		Handle(ctx context.Context, query queries.GetOrderItemsQuery) ([]queries.OrderItemView, error)
	}
	OrderStatisticsHandler interface {
		Handle(ctx context.Context, query queries.GetOrderStatisticsQuery) (services.Summary, error)
	}
)

// Handlers groups the use cases served by the API.
type Handlers struct {
	PlaceOrder                PlaceOrderHandler
	AcceptOrder               AcceptOrderHandler
	FinalizeDelivery          FinalizeDeliveryHandler
	CancelOrder               CancelOrderHandler
	AdvanceKitchenStatus      AdvanceKitchenStatusHandler
	RecaptureDeliveryLocation RecaptureDeliveryLocationHandler
	ReportDriverPosition      ReportDriverPositionHandler

	AvailableOrders    AvailableOrdersHandler
	DriverActiveOrders DriverActiveOrdersHandler
	CustomerOrders     CustomerOrdersHandler
	OrderItems         OrderItemsHandler
	OrderStatistics    OrderStatisticsHandler
}

// Metrics is implemented by *metrics.Recorder.
type Metrics interface {
	RequestStarted() func(method, route string, status int)
	ObserveLocation(outcome string)
}

// Server adapts HTTP requests to the workflow use cases.
type Server struct {
	handlers Handlers
	verifier ports.IdentityVerifier
	metrics  Metrics
	logger   *slog.Logger
}

func NewServer(handlers Handlers, verifier ports.IdentityVerifier, metrics Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "http")),
	}
}
