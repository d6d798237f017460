// Package reporting serves read-only aggregates over orders, users and the menu.
// Nothing here goes through a Unit of Work; every figure is a plain query.
package reporting

import (
	"context"
	"time"

	"campusfood/domain/shared"
)

// Store is implemented by each persistence adapter.
type Store interface {
	UserSummary(ctx context.Context, userID int64) (UserSummary, error)
	Dashboard(ctx context.Context) (Dashboard, error)
	RevenueByDay(ctx context.Context, r DayRange) ([]DailyRevenue, error)
	TopItems(ctx context.Context, limit int) ([]TopItem, error)

	// PopularItems ranks available menu items by order lines, then newest first.
	PopularItems(ctx context.Context, limit int) ([]PopularItem, error)
}

// UserSummary counts every order of one user, cancelled ones included in the total.
type UserSummary struct {
	TotalOrders     int64        `json:"total_orders"`
	PendingOrders   int64        `json:"pending_orders"`
	PreparingOrders int64        `json:"preparing_orders"`
	ReadyOrders     int64        `json:"ready_orders"`
	CompletedOrders int64        `json:"completed_orders"`
	TotalSpent      shared.Money `json:"total_spent"`
}

type Dashboard struct {
	TotalOrders        int64        `json:"total_orders"`
	PendingOrders      int64        `json:"pending_orders"`
	PreparingOrders    int64        `json:"preparing_orders"`
	ReadyOrders        int64        `json:"ready_orders"`
	CompletedOrders    int64        `json:"completed_orders"`
	CancelledOrders    int64        `json:"cancelled_orders"`
	TotalRevenue       shared.Money `json:"total_revenue"`
	CompletedRevenue   shared.Money `json:"completed_revenue"`
	TotalUsers         int64        `json:"total_users"`
	AvailableMenuItems int64        `json:"available_items"`
}

// DayRange bounds are calendar days in UTC, both inclusive. Zero means open.
type DayRange struct {
	From time.Time
	To   time.Time
}

// Bounds returns the half-open instant range [start, end) covering the days.
func (r DayRange) Bounds() (start, end time.Time) {
	if !r.From.IsZero() {
		start = truncateDay(r.From)
	}
	if !r.To.IsZero() {
		end = truncateDay(r.To).AddDate(0, 0, 1)
	}
	return start, end
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type DailyRevenue struct {
	Date       string       `json:"date"`
	OrderCount int64        `json:"order_count"`
	Revenue    shared.Money `json:"revenue"`
}

// TopItem revenue uses the unit prices captured on the order lines.
type TopItem struct {
	MenuItemID    int64        `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Price         shared.Money `json:"price"`
	OrderCount    int64        `json:"order_count"`
	TotalQuantity int64        `json:"total_quantity"`
	Revenue       shared.Money `json:"total_revenue"`
}

type PopularItem struct {
	MenuItemID int64
	OrderCount int64
}
