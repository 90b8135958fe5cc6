package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds request bodies; a 100 item order is far below it.
const maxBodySize = "1M"

// NewEcho builds the echo instance with every route registered.
func NewEcho(s *Server, metricsHandler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(s.observe)
	e.Use(s.requestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	api := e.Group("/api/v1", s.authenticate)

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.GetCustomerOrders)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.GET("/orders/active", s.GetDriverActiveOrders)
	api.GET("/orders/:id/items", s.GetOrderItems)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/finalize", s.FinalizeDelivery)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/kitchen-status", s.AdvanceKitchenStatus)
	api.PUT("/orders/:id/delivery-location", s.RecaptureDeliveryLocation)

	api.PUT("/drivers/me/position", s.ReportDriverPosition)

	api.GET("/statistics", s.GetOrderStatistics)

	return e
}
