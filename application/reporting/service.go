package reporting

import (
	"context"

	"campusfood/domain/menu"
)

const (
	DefaultPopularLimit  = 6
	DefaultTopItemsLimit = 10
	maxLimit             = 100
)

type Service struct {
	store Store
	menus menu.Repository
}

func NewService(store Store, menus menu.Repository) *Service {
	return &Service{store: store, menus: menus}
}

func (s *Service) UserSummary(ctx context.Context, userID int64) (UserSummary, error) {
	return s.store.UserSummary(ctx, userID)
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	return s.store.Dashboard(ctx)
}

func (s *Service) RevenueByDay(ctx context.Context, r DayRange) ([]DailyRevenue, error) {
	rows, err := s.store.RevenueByDay(ctx, r)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []DailyRevenue{}
	}
	return rows, nil
}

func (s *Service) TopItems(ctx context.Context, limit int) ([]TopItem, error) {
	rows, err := s.store.TopItems(ctx, clampLimit(limit, DefaultTopItemsLimit))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []TopItem{}
	}
	return rows, nil
}

// PopularEntry is a menu item with how many order lines reference it.
type PopularEntry struct {
	Item       *menu.Item
	OrderCount int64
}

// Popular keeps the store's ranking and drops items deleted in between.
func (s *Service) Popular(ctx context.Context, limit int) ([]PopularEntry, error) {
	ranked, err := s.store.PopularItems(ctx, clampLimit(limit, DefaultPopularLimit))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.MenuItemID
	}
	items, err := s.menus.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PopularEntry, 0, len(ranked))
	for _, r := range ranked {
		if item, ok := items[r.MenuItemID]; ok {
			out = append(out, PopularEntry{Item: item, OrderCount: r.OrderCount})
		}
	}
	return out, nil
}

func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}
