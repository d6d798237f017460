package memory

import (
	"context"
	"sort"
	"time"

	"campusfood/application/reporting"
	"campusfood/domain/order"
	"campusfood/domain/shared"
)

type ReportingStore struct {
	store *Store
}

func NewReportingStore(store *Store) *ReportingStore {
	return &ReportingStore{store: store}
}

func (r *ReportingStore) UserSummary(ctx context.Context, userID int64) (reporting.UserSummary, error) {
	var sum reporting.UserSummary
	sum.TotalSpent = shared.ZeroMoney()
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.UserID != userID {
				continue
			}
			sum.TotalOrders++
			sum.TotalSpent = sum.TotalSpent.Add(o.TotalAmount)
			switch o.Status {
			case order.StatusPending:
				sum.PendingOrders++
			case order.StatusPreparing:
				sum.PreparingOrders++
			case order.StatusReady:
				sum.ReadyOrders++
			case order.StatusCompleted:
				sum.CompletedOrders++
			}
		}
		return nil
	})
	return sum, err
}

func (r *ReportingStore) Dashboard(ctx context.Context) (reporting.Dashboard, error) {
	d := reporting.Dashboard{
		TotalRevenue:     shared.ZeroMoney(),
		CompletedRevenue: shared.ZeroMoney(),
	}
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			d.TotalOrders++
			d.TotalRevenue = d.TotalRevenue.Add(o.TotalAmount)
			switch o.Status {
			case order.StatusPending:
				d.PendingOrders++
			case order.StatusPreparing:
				d.PreparingOrders++
			case order.StatusReady:
				d.ReadyOrders++
			case order.StatusCompleted:
				d.CompletedOrders++
				d.CompletedRevenue = d.CompletedRevenue.Add(o.TotalAmount)
			case order.StatusCancelled:
				d.CancelledOrders++
			}
		}
		d.TotalUsers = int64(len(st.users))
		for _, m := range st.menu {
			if m.Available {
				d.AvailableMenuItems++
			}
		}
		return nil
	})
	return d, err
}

func (r *ReportingStore) RevenueByDay(ctx context.Context, rng reporting.DayRange) ([]reporting.DailyRevenue, error) {
	start, end := rng.Bounds()
	byDay := make(map[string]*reporting.DailyRevenue)
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			if !start.IsZero() && o.CreatedAt.Before(start) {
				continue
			}
			if !end.IsZero() && !o.CreatedAt.Before(end) {
				continue
			}
			key := o.CreatedAt.UTC().Format(time.DateOnly)
			day, ok := byDay[key]
			if !ok {
				day = &reporting.DailyRevenue{Date: key, Revenue: shared.ZeroMoney()}
				byDay[key] = day
			}
			day.OrderCount++
			day.Revenue = day.Revenue.Add(o.TotalAmount)
		}
		return nil
	})

	out := make([]reporting.DailyRevenue, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, err
}

func (r *ReportingStore) TopItems(ctx context.Context, limit int) ([]reporting.TopItem, error) {
	byItem := make(map[int64]*reporting.TopItem)
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			for _, line := range o.Items {
				m, ok := st.menu[line.MenuItemID()]
				if !ok {
					continue
				}
				top, ok := byItem[m.ID]
				if !ok {
					top = &reporting.TopItem{
						MenuItemID: m.ID,
						Name:       m.Name,
						Category:   m.Category,
						Price:      m.Price,
						Revenue:    shared.ZeroMoney(),
					}
					byItem[m.ID] = top
				}
				top.OrderCount++
				top.TotalQuantity += int64(line.Quantity())
				top.Revenue = top.Revenue.Add(line.Subtotal())
			}
		}
		return nil
	})

	out := make([]reporting.TopItem, 0, len(byItem))
	for _, top := range byItem {
		out = append(out, *top)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *ReportingStore) PopularItems(ctx context.Context, limit int) ([]reporting.PopularItem, error) {
	type ranked struct {
		reporting.PopularItem
		createdAt time.Time
	}
	var rows []ranked
	err := r.store.read(ctx, func(st *state) error {
		lines := make(map[int64]int64)
		for _, o := range st.orders {
			for _, line := range o.Items {
				lines[line.MenuItemID()]++
			}
		}
		for id, m := range st.menu {
			if !m.Available {
				continue
			}
			rows = append(rows, ranked{
				PopularItem: reporting.PopularItem{MenuItemID: id, OrderCount: lines[id]},
				createdAt:   m.CreatedAt,
			})
		}
		return nil
	})

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OrderCount != rows[j].OrderCount {
			return rows[i].OrderCount > rows[j].OrderCount
		}
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].MenuItemID > rows[j].MenuItemID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]reporting.PopularItem, len(rows))
	for i, row := range rows {
		out[i] = row.PopularItem
	}
	return out, err
}

var _ reporting.Store = (*ReportingStore)(nil)
