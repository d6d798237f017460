package order

import (
	"strconv"
	"time"
)

type OrderPlacedEvent struct {
	orderID     int64
	userID      int64
	totalAmount string
	orderType   Type
	itemCount   int
	occurredOn  time.Time
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		orderID:     o.id,
		userID:      o.userID,
		totalAmount: o.totalAmount.String(),
		orderType:   o.orderType,
		itemCount:   len(o.items),
		occurredOn:  time.Now(),
	}
}

func (e *OrderPlacedEvent) EventName() string      { return "order.placed" }
func (e *OrderPlacedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderPlacedEvent) GetAggregateID() string { return strconv.FormatInt(e.orderID, 10) }
func (e *OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":     e.orderID,
		"user_id":      e.userID,
		"total_amount": e.totalAmount,
		"order_type":   string(e.orderType),
		"item_count":   e.itemCount,
	}
}

type OrderStatusChangedEvent struct {
	orderID    string
	userID     int64
	from       Status
	to         Status
	occurredOn time.Time
}

func NewOrderStatusChangedEvent(orderID string, userID int64, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{orderID: orderID, userID: userID, from: from, to: to, occurredOn: time.Now()}
}

func (e *OrderStatusChangedEvent) EventName() string      { return "order.status_changed" }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id": e.orderID,
		"user_id":  e.userID,
		"from":     string(e.from),
		"to":       string(e.to),
	}
}

type OrderCancelledEvent struct {
	orderID    string
	userID     int64
	from       Status
	occurredOn time.Time
}

func NewOrderCancelledEvent(orderID string, userID int64, from Status) *OrderCancelledEvent {
	return &OrderCancelledEvent{orderID: orderID, userID: userID, from: from, occurredOn: time.Now()}
}

func (e *OrderCancelledEvent) EventName() string      { return "order.cancelled" }
func (e *OrderCancelledEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderCancelledEvent) GetAggregateID() string { return e.orderID }
func (e *OrderCancelledEvent) Payload() map[string]any {
	return map[string]any{"order_id": e.orderID, "user_id": e.userID, "from": string(e.from)}
}

type OrderDeletedEvent struct {
	orderID    int64
	occurredOn time.Time
}

func NewOrderDeletedEvent(orderID int64) *OrderDeletedEvent {
	return &OrderDeletedEvent{orderID: orderID, occurredOn: time.Now()}
}

func (e *OrderDeletedEvent) EventName() string      { return "order.deleted" }
func (e *OrderDeletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderDeletedEvent) GetAggregateID() string { return strconv.FormatInt(e.orderID, 10) }
func (e *OrderDeletedEvent) Payload() map[string]any {
	return map[string]any{"order_id": e.orderID}
}
