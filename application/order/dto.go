package order

import (
	"encoding/json"
	"time"

	"campusfood/domain/shared"
)

// PlaceOrderRequest keeps items raw so that a missing or non-array value
// is reported as an invalid order rather than a malformed request.
type PlaceOrderRequest struct {
	OrderType string          `json:"order_type"`
	Items     json.RawMessage `json:"items"`
}

// CartItemRequest fields are pointers so omitted values can be told apart from zero.
type CartItemRequest struct {
	MenuItemID *int64        `json:"menu_item_id"`
	Quantity   *int          `json:"quantity"`
	Price      *shared.Money `json:"price"`
}

type PlaceOrderResponse struct {
	OrderID     int64        `json:"order_id"`
	TotalAmount shared.Money `json:"total_amount"`
}

// ListOrdersQuery is the owner's order listing filter.
type ListOrdersQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	TotalAmount shared.Money        `json:"total_amount"`
	Status      string              `json:"status"`
	OrderType   string              `json:"order_type"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Items       []OrderItemResponse `json:"items"`

	// Customer is set on detail views and admin listings.
	Customer *CustomerResponse `json:"customer,omitempty"`
}

// OrderItemResponse carries the captured unit price, never the current catalog price.
type OrderItemResponse struct {
	ID          int64        `json:"id"`
	MenuItemID  int64        `json:"menu_item_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Quantity    int          `json:"quantity"`
	Price       shared.Money `json:"price"`
	Subtotal    shared.Money `json:"subtotal"`
}

type CustomerResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RoomNumber string `json:"room_number"`
}
