package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type CreateOrderItem struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity"   validate:"gt=0"`
	Price     *decimal.Decimal `json:"price"      validate:"omitnil,gte=0"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" validate:"required,max=255"`
	Status       models.OrderStatus `json:"status"        validate:"required,oneof=pending processing shipped delivered cancelled"`
	Items        []CreateOrderItem  `json:"items"         validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// OrderResponse adds the computed total to an order.
type OrderResponse struct {
	models.Order
	Total decimal.Decimal `json:"total"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{Order: *o, Total: o.Total()}
}

func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = NewOrderResponse(&orders[i])
	}
	return out
}
