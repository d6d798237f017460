package relational

import (
	"context"
	"time"

	"campusfood/application/reporting"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence/relational/po"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportingStore answers the read-side queries with aggregate SQL.
type ReportingStore struct {
	db *gorm.DB
}

func NewReportingStore(db *gorm.DB) *ReportingStore {
	return &ReportingStore{db: db}
}

const statusCounts = `COUNT(*) AS total_orders,
	COUNT(CASE WHEN status = ? THEN 1 END) AS pending_orders,
	COUNT(CASE WHEN status = ? THEN 1 END) AS preparing_orders,
	COUNT(CASE WHEN status = ? THEN 1 END) AS ready_orders,
	COUNT(CASE WHEN status = ? THEN 1 END) AS completed_orders`

func statusArgs() []any {
	return []any{
		string(order.StatusPending),
		string(order.StatusPreparing),
		string(order.StatusReady),
		string(order.StatusCompleted),
	}
}

func (s *ReportingStore) UserSummary(ctx context.Context, userID int64) (reporting.UserSummary, error) {
	var row struct {
		TotalOrders     int64
		PendingOrders   int64
		PreparingOrders int64
		ReadyOrders     int64
		CompletedOrders int64
		TotalSpent      decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&po.OrderPO{}).
		Select(statusCounts+", COALESCE(SUM(total_amount), 0) AS total_spent", statusArgs()...).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return reporting.UserSummary{}, wrapErr("order", "user summary", err)
	}
	return reporting.UserSummary{
		TotalOrders:     row.TotalOrders,
		PendingOrders:   row.PendingOrders,
		PreparingOrders: row.PreparingOrders,
		ReadyOrders:     row.ReadyOrders,
		CompletedOrders: row.CompletedOrders,
		TotalSpent:      shared.NewMoney(row.TotalSpent),
	}, nil
}

func (s *ReportingStore) Dashboard(ctx context.Context) (reporting.Dashboard, error) {
	var row struct {
		TotalOrders        int64
		PendingOrders      int64
		PreparingOrders    int64
		ReadyOrders        int64
		CompletedOrders    int64
		CancelledOrders    int64
		TotalRevenue       decimal.Decimal
		CompletedRevenue   decimal.Decimal
		TotalUsers         int64
		AvailableMenuItems int64
	}
	err := s.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM orders) AS total_orders,
		(SELECT COUNT(*) FROM orders WHERE status = ?) AS pending_orders,
		(SELECT COUNT(*) FROM orders WHERE status = ?) AS preparing_orders,
		(SELECT COUNT(*) FROM orders WHERE status = ?) AS ready_orders,
		(SELECT COUNT(*) FROM orders WHERE status = ?) AS completed_orders,
		(SELECT COUNT(*) FROM orders WHERE status = ?) AS cancelled_orders,
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders) AS total_revenue,
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ?) AS completed_revenue,
		(SELECT COUNT(*) FROM users) AS total_users,
		(SELECT COUNT(*) FROM menu_items WHERE available = ?) AS available_menu_items`,
		string(order.StatusPending),
		string(order.StatusPreparing),
		string(order.StatusReady),
		string(order.StatusCompleted),
		string(order.StatusCancelled),
		string(order.StatusCompleted),
		true,
	).Scan(&row).Error
	if err != nil {
		return reporting.Dashboard{}, wrapErr("order", "dashboard", err)
	}
	return reporting.Dashboard{
		TotalOrders:        row.TotalOrders,
		PendingOrders:      row.PendingOrders,
		PreparingOrders:    row.PreparingOrders,
		ReadyOrders:        row.ReadyOrders,
		CompletedOrders:    row.CompletedOrders,
		CancelledOrders:    row.CancelledOrders,
		TotalRevenue:       shared.NewMoney(row.TotalRevenue),
		CompletedRevenue:   shared.NewMoney(row.CompletedRevenue),
		TotalUsers:         row.TotalUsers,
		AvailableMenuItems: row.AvailableMenuItems,
	}, nil
}

func (s *ReportingStore) RevenueByDay(ctx context.Context, r reporting.DayRange) ([]reporting.DailyRevenue, error) {
	var rows []struct {
		Day        time.Time
		OrderCount int64
		Revenue    decimal.Decimal
	}
	q := s.db.WithContext(ctx).Model(&po.OrderPO{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue")
	start, end := r.Bounds()
	if !start.IsZero() {
		q = q.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("created_at < ?", end)
	}
	if err := q.Group("DATE(created_at)").Order("day DESC").Scan(&rows).Error; err != nil {
		return nil, wrapErr("order", "revenue by day", err)
	}

	out := make([]reporting.DailyRevenue, len(rows))
	for i, row := range rows {
		out[i] = reporting.DailyRevenue{
			Date:       row.Day.Format(time.DateOnly),
			OrderCount: row.OrderCount,
			Revenue:    shared.NewMoney(row.Revenue),
		}
	}
	return out, nil
}

func (s *ReportingStore) TopItems(ctx context.Context, limit int) ([]reporting.TopItem, error) {
	var rows []struct {
		MenuItemID    int64
		Name          string
		Category      string
		Price         decimal.Decimal
		OrderCount    int64
		TotalQuantity int64
		Revenue       decimal.Decimal
	}
	err := s.db.WithContext(ctx).Table("menu_items AS m").
		Select(`m.id AS menu_item_id, m.name AS name, m.category AS category, m.price AS price,
			COUNT(oi.id) AS order_count,
			COALESCE(SUM(oi.quantity), 0) AS total_quantity,
			COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue`).
		Joins("JOIN order_items oi ON oi.menu_item_id = m.id").
		Group("m.id, m.name, m.category, m.price").
		Order("total_quantity DESC").
		Order("m.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("menu item", "top items", err)
	}

	out := make([]reporting.TopItem, len(rows))
	for i, row := range rows {
		out[i] = reporting.TopItem{
			MenuItemID:    row.MenuItemID,
			Name:          row.Name,
			Category:      row.Category,
			Price:         shared.NewMoney(row.Price),
			OrderCount:    row.OrderCount,
			TotalQuantity: row.TotalQuantity,
			Revenue:       shared.NewMoney(row.Revenue),
		}
	}
	return out, nil
}

func (s *ReportingStore) PopularItems(ctx context.Context, limit int) ([]reporting.PopularItem, error) {
	var rows []reporting.PopularItem
	err := s.db.WithContext(ctx).Table("menu_items AS m").
		Select("m.id AS menu_item_id, COUNT(oi.id) AS order_count").
		Joins("LEFT JOIN order_items oi ON oi.menu_item_id = m.id").
		Where("m.available = ?", true).
		Group("m.id, m.created_at").
		Order("order_count DESC").
		Order("m.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("menu item", "popular", err)
	}
	return rows, nil
}

var _ reporting.Store = (*ReportingStore)(nil)
