package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

type LocationPayload struct {
	Latitude  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (p *LocationPayload) toDomain() (*kernel.Location, error) {
	if p == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*p.Latitude, *p.Longitude)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

type PlaceOrderItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

type PlaceOrderRequest struct {
	RestaurantID string                  `json:"restaurant_id" validate:"required,uuid"`
	Address      string                  `json:"address" validate:"required,max=500"`
	Items        []PlaceOrderItemPayload `json:"items" validate:"required,min=1,max=100,dive"`
	Location     *LocationPayload        `json:"location"`
}

// AcceptOrderRequest is optional: drivers whose app already has a fix send it along.
type AcceptOrderRequest struct {
	Location *LocationPayload `json:"location"`
}

type KitchenStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing ready_for_pickup"`
}

// requestValidator adapts validator/v10 to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

func (r PlaceOrderRequest) toCommandItems() ([]commands.PlaceOrderItem, error) {
	items := make([]commands.PlaceOrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, commands.PlaceOrderItem{ProductID: productID, Quantity: item.Quantity})
	}
	return items, nil
}

type LocationResponse struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func locationResponse(loc *kernel.Location) *LocationResponse {
	if loc == nil {
		return nil
	}
	return &LocationResponse{Latitude: loc.Latitude(), Longitude: loc.Longitude()}
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	RestaurantID string              `json:"restaurant_id"`
	DriverID     *string             `json:"driver_id"`
	Address      string              `json:"address"`
	Total        string              `json:"total"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Location     *LocationResponse   `json:"location,omitempty"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func orderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			Subtotal:    item.Subtotal().String(),
		})
	}

	return OrderResponse{
		ID:           o.ID().String(),
		CustomerID:   o.Customer().String(),
		RestaurantID: o.Restaurant().String(),
		DriverID:     optionalID(o.Driver()),
		Address:      o.Address(),
		Total:        o.Total().String(),
		Status:       o.Status().String(),
		CreatedAt:    o.CreatedAt(),
		Items:        items,
	}
}

func summaryResponses(summaries []queries.OrderSummary) []OrderResponse {
	response := make([]OrderResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, OrderResponse{
			ID:           s.ID.String(),
			CustomerID:   s.CustomerID.String(),
			RestaurantID: s.RestaurantID.String(),
			DriverID:     optionalID(s.DriverID),
			Address:      s.Address,
			Total:        s.Total.String(),
			Status:       s.Status.String(),
			CreatedAt:    s.CreatedAt,
			Location:     locationResponse(s.DeliveryLocation),
		})
	}
	return response
}

func itemResponses(views []queries.OrderItemView) []OrderItemResponse {
	response := make([]OrderItemResponse, 0, len(views))
	for _, v := range views {
		response = append(response, OrderItemResponse{
			ID:          v.ID.String(),
			ProductID:   v.ProductID.String(),
			ProductName: v.ProductName,
			Quantity:    v.Quantity,
			UnitPrice:   v.UnitPrice.String(),
			Subtotal:    v.Subtotal.String(),
		})
	}
	return response
}

type DeliveryResponse struct {
	ID       string           `json:"id"`
	OrderID  string           `json:"order_id"`
	Status   string           `json:"status"`
	Location LocationResponse `json:"location"`
}

func deliveryResponse(d *delivery.Delivery) *DeliveryResponse {
	if d == nil {
		return nil
	}
	loc := d.Location()
	return &DeliveryResponse{
		ID:       d.ID().String(),
		OrderID:  d.OrderID().String(),
		Status:   d.Status().String(),
		Location: *locationResponse(&loc),
	}
}

type AcceptOrderResponse struct {
	Order           OrderResponse     `json:"order"`
	Delivery        *DeliveryResponse `json:"delivery"`
	LocationSource  string            `json:"location_source"`
	LocationWarning string            `json:"location_warning,omitempty"`
}

type DayBucketResponse struct {
	Day     string `json:"day"`
	Count   int    `json:"count"`
	Revenue string `json:"revenue"`
}

type StatisticsResponse struct {
	WindowDays         int                 `json:"window_days"`
	TotalOrders        int                 `json:"total_orders"`
	Revenue            string              `json:"revenue"`
	AverageOrderValue  string              `json:"average_order_value"`
	ByStatus           map[string]int      `json:"by_status"`
	ByDay              []DayBucketResponse `json:"by_day"`
	DayOverDayGrowth   float64             `json:"day_over_day_growth"`
	WeekOverWeekGrowth float64             `json:"week_over_week_growth"`
}

func statisticsResponse(summary services.Summary) StatisticsResponse {
	byStatus := make(map[string]int, len(summary.ByStatus))
	for status, count := range summary.ByStatus {
		byStatus[status.String()] = count
	}
	byDay := make([]DayBucketResponse, 0, len(summary.ByDay))
	for _, bucket := range summary.ByDay {
		byDay = append(byDay, DayBucketResponse{
			Day:     bucket.Day,
			Count:   bucket.Count,
			Revenue: bucket.Revenue.String(),
		})
	}

	return StatisticsResponse{
		WindowDays:         int(summary.Window),
		TotalOrders:        summary.TotalOrders,
		Revenue:            summary.Revenue.String(),
		AverageOrderValue:  summary.AverageOrderValue.String(),
		ByStatus:           byStatus,
		ByDay:              byDay,
		DayOverDayGrowth:   summary.DayOverDayGrowth,
		WeekOverWeekGrowth: summary.WeekOverWeekGrowth,
	}
}
