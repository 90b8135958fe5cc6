package http

import (
	"errors"
	"net/http"
	"strconv"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

// bindAndValidate decodes the JSON body into req and validates it. Decoding errors
// become validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return errs.NewValueIsInvalidErrorWithCause("request body", httpErr.Internal)
		}
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return err
	}
	items, err := req.toCommandItems()
	if err != nil {
		return err
	}
	checkout, err := req.Location.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceOrderCommand(actorOf(c), kernel.NewUUID(), restaurantID, req.Address, items, checkout)
	if err != nil {
		return err
	}

	placed, err := s.handlers.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	response := orderResponse(placed)
	response.Location = locationResponse(checkout)
	return c.JSON(http.StatusCreated, response)
}

// AcceptOrder handles POST /api/v1/orders/:id/accept. A missing coordinate is reported
// as location_warning while the claim itself succeeds.
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req AcceptOrderRequest
	if c.Request().ContentLength != 0 {
		if err = bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	position, err := req.Location.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewAcceptOrderCommand(actorOf(c), orderID, position)
	if err != nil {
		return err
	}

	result, err := s.handlers.AcceptOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	response := AcceptOrderResponse{
		Order:          orderResponse(result.Order),
		Delivery:       deliveryResponse(result.Delivery),
		LocationSource: result.LocationSource.String(),
	}
	outcome := result.LocationSource.String()
	if result.LocationWarning != nil {
		response.LocationWarning = result.LocationWarning.Error()
		outcome = "warning"
	}
	if s.metrics != nil {
		s.metrics.ObserveLocation(outcome)
	}

	return c.JSON(http.StatusOK, response)
}

// FinalizeDelivery handles POST /api/v1/orders/:id/finalize.
func (s *Server) FinalizeDelivery(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewFinalizeDeliveryCommand(actorOf(c), orderID)
	if err != nil {
		return err
	}

	finalized, err := s.handlers.FinalizeDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(finalized))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(actorOf(c), orderID)
	if err != nil {
		return err
	}

	cancelled, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(cancelled))
}

// AdvanceKitchenStatus handles POST /api/v1/orders/:id/kitchen-status.
func (s *Server) AdvanceKitchenStatus(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req KitchenStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAdvanceKitchenStatusCommand(actorOf(c), orderID, target)
	if err != nil {
		return err
	}

	advanced, err := s.handlers.AdvanceKitchenStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(advanced))
}

// RecaptureDeliveryLocation handles PUT /api/v1/orders/:id/delivery-location.
func (s *Server) RecaptureDeliveryLocation(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req LocationPayload
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	loc, err := req.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecaptureDeliveryLocationCommand(actorOf(c), orderID, *loc)
	if err != nil {
		return err
	}

	recaptured, err := s.handlers.RecaptureDeliveryLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryResponse(recaptured))
}

// ReportDriverPosition handles PUT /api/v1/drivers/me/position.
func (s *Server) ReportDriverPosition(c echo.Context) error {
	var req LocationPayload
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	loc, err := req.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportDriverPositionCommand(actorOf(c), *loc)
	if err != nil {
		return err
	}

	if err = s.handlers.ReportDriverPosition.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCustomerOrders handles GET /api/v1/orders.
func (s *Server) GetCustomerOrders(c echo.Context) error {
	orders, err := s.handlers.CustomerOrders.Handle(c.Request().Context(), queries.NewGetCustomerOrdersQuery(actorOf(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponses(orders))
}

// GetAvailableOrders handles GET /api/v1/orders/available.
func (s *Server) GetAvailableOrders(c echo.Context) error {
	orders, err := s.handlers.AvailableOrders.Handle(c.Request().Context(), queries.NewGetAvailableOrdersQuery(actorOf(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponses(orders))
}

// GetDriverActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetDriverActiveOrders(c echo.Context) error {
	orders, err := s.handlers.DriverActiveOrders.Handle(
		c.Request().Context(), queries.NewGetDriverActiveOrdersQuery(actorOf(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponses(orders))
}

// GetOrderItems handles GET /api/v1/orders/:id/items.
func (s *Server) GetOrderItems(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderItemsQuery(actorOf(c), orderID)
	if err != nil {
		return err
	}

	items, err := s.handlers.OrderItems.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemResponses(items))
}

// GetOrderStatistics handles GET /api/v1/statistics?window=7|30|90. Without window the
// whole history is summarized.
func (s *Server) GetOrderStatistics(c echo.Context) error {
	windowDays := 0
	if raw := c.QueryParam("window"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("window", err)
		}
		windowDays = days
	}

	query, err := queries.NewGetOrderStatisticsQuery(actorOf(c), windowDays)
	if err != nil {
		return err
	}

	summary, err := s.handlers.OrderStatistics.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statisticsResponse(summary))
}
