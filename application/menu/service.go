// Package menu serves the public catalog reads.
package menu

import (
	"context"
	"strings"
	"time"

	"campusfood/application/reporting"
	"campusfood/domain/menu"
	"campusfood/domain/shared"
)

type ListQuery struct {
	Category  string `form:"category"`
	Available *bool  `form:"available"`
	Search    string `form:"search"`
}

type ItemResponse struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         shared.Money  `json:"price"`
	OriginalPrice *shared.Money `json:"original_price"`
	Category      string        `json:"category"`
	ImageURL      string        `json:"image_url"`
	Available     bool          `json:"available"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PopularItemResponse struct {
	ItemResponse
	OrderCount int64 `json:"order_count"`
}

type ApplicationService struct {
	menus   menu.Repository
	reports *reporting.Service
}

func NewApplicationService(menus menu.Repository, reports *reporting.Service) *ApplicationService {
	return &ApplicationService{menus: menus, reports: reports}
}

// List shows available items unless the query asks otherwise.
func (s *ApplicationService) List(ctx context.Context, q ListQuery) ([]ItemResponse, error) {
	items, err := s.menus.List(ctx, menu.PublicFilter(q.Category, q.Available, strings.TrimSpace(q.Search)))
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

func (s *ApplicationService) Get(ctx context.Context, id int64) (*ItemResponse, error) {
	item, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// ByCategory lists the available items of one category by name.
func (s *ApplicationService) ByCategory(ctx context.Context, category string) ([]ItemResponse, error) {
	available := true
	items, err := s.menus.List(ctx, menu.Filter{Category: category, Available: &available})
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

func (s *ApplicationService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.menus.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *ApplicationService) Popular(ctx context.Context) ([]PopularItemResponse, error) {
	entries, err := s.reports.Popular(ctx, reporting.DefaultPopularLimit)
	if err != nil {
		return nil, err
	}
	out := make([]PopularItemResponse, len(entries))
	for i, e := range entries {
		out[i] = PopularItemResponse{ItemResponse: ToItemResponse(e.Item), OrderCount: e.OrderCount}
	}
	return out, nil
}

func ToItemResponse(item *menu.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID(),
		Name:          item.Name(),
		Description:   item.Description(),
		Price:         item.Price(),
		OriginalPrice: item.OriginalPrice(),
		Category:      item.Category(),
		ImageURL:      item.ImageURL(),
		Available:     item.IsAvailable(),
		CreatedAt:     item.CreatedAt(),
		UpdatedAt:     item.UpdatedAt(),
	}
}

func ToItemResponses(items []*menu.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ToItemResponse(item)
	}
	return out
}
