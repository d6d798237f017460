/*
Package admin is the staff surface: order lifecycle, catalog management and
statistics. Callers have already passed the admin check.
*/
package admin

import (
	"context"
	"strings"
	"time"

	menuapp "campusfood/application/menu"
	orderapp "campusfood/application/order"
	"campusfood/application/reporting"
	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/persistence"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

const DefaultOrderListLimit = 100

type Dependencies struct {
	UnitOfWork      shared.UnitOfWorkFactory
	Orders          order.Repository
	Menus           menu.Repository
	Users           user.Repository
	Reports         *reporting.Service
	StrictLifecycle bool
	ListLimit       int
}

type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orders     order.Repository
	menus      menu.Repository
	assembler  *orderapp.Assembler
	reports    *reporting.Service
	policy     order.TransitionPolicy
	listLimit  int
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	limit := deps.ListLimit
	if limit <= 0 {
		limit = DefaultOrderListLimit
	}
	return &ApplicationService{
		uowFactory: deps.UnitOfWork,
		orders:     deps.Orders,
		menus:      deps.Menus,
		assembler:  orderapp.NewAssembler(deps.Menus, deps.Users),
		reports:    deps.Reports,
		policy:     order.PolicyFor(deps.StrictLifecycle),
		listLimit:  limit,
	}
}

type OrdersQuery struct {
	Status string `form:"status"`
	Date   string `form:"date"`
	Limit  int    `form:"limit"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateMenuItemRequest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         *shared.Money `json:"price"`
	OriginalPrice *shared.Money `json:"original_price"`
	Category      string        `json:"category"`
	ImageURL      string        `json:"image_url"`
	Available     *bool         `json:"available"`
}

// UpdateMenuItemRequest leaves absent fields untouched.
type UpdateMenuItemRequest struct {
	Name          *string       `json:"name"`
	Description   *string       `json:"description"`
	Price         *shared.Money `json:"price"`
	OriginalPrice *shared.Money `json:"original_price"`
	Category      *string       `json:"category"`
	ImageURL      *string       `json:"image_url"`
	Available     *bool         `json:"available"`
}

type RevenueQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (s *ApplicationService) ListOrders(ctx context.Context, q OrdersQuery) ([]orderapp.OrderResponse, error) {
	criteria := order.Criteria{Limit: q.Limit}
	if criteria.Limit <= 0 {
		criteria.Limit = s.listLimit
	}
	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		criteria.Status = status
	}
	if q.Date != "" {
		day, err := parseDay("date", q.Date)
		if err != nil {
			return nil, err
		}
		criteria.Date = day
	}

	orders, err := s.orders.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, orders, true)
}

func (s *ApplicationService) GetOrder(ctx context.Context, id int64) (*orderapp.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.AssembleOne(ctx, o)
}

// UpdateOrderStatus rejects unknown statuses before touching the order.
// Setting the current status again succeeds without writing.
func (s *ApplicationService) UpdateOrderStatus(ctx context.Context, adminID, id int64, req UpdateStatusRequest) (*orderapp.OrderResponse, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var updated *order.Order
	var from order.Status
	changed := false
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "admin.update_order_status")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		from = o.Status()
		if changed, err = o.ChangeStatus(target, s.policy); err != nil {
			return err
		}
		if changed {
			if err := s.orders.Save(ctx, o); err != nil {
				return err
			}
			uow.RegisterDirty(o)
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		logger.FromContext(ctx).Info("Order status updated",
			zap.Int64("order_id", id),
			zap.Int64("admin_id", adminID),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
	}
	return s.assembler.AssembleOne(ctx, updated)
}

// DeleteOrder hard-deletes the order and its lines.
func (s *ApplicationService) DeleteOrder(ctx context.Context, adminID, id int64) error {
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "admin.delete_order")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		o.MarkRemoved()
		if err := s.orders.Delete(ctx, id); err != nil {
			return err
		}
		uow.RegisterRemoved(o)
		return nil
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Order deleted", zap.Int64("order_id", id), zap.Int64("admin_id", adminID))
	return nil
}

// ListMenu includes unavailable items.
func (s *ApplicationService) ListMenu(ctx context.Context) ([]menuapp.ItemResponse, error) {
	items, err := s.menus.List(ctx, menu.Filter{})
	if err != nil {
		return nil, err
	}
	return menuapp.ToItemResponses(items), nil
}

func (s *ApplicationService) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*menuapp.ItemResponse, error) {
	if strings.TrimSpace(req.Name) == "" || req.Price == nil || strings.TrimSpace(req.Category) == "" {
		return nil, menu.NewInvalidItemError("", "name, price, and category are required")
	}
	item, err := menu.NewItem(menu.Draft{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		Available:     req.Available,
	})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "admin.create_menu_item")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.menus.Save(ctx, item); err != nil {
			return err
		}
		uow.RegisterNew(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := menuapp.ToItemResponse(item)
	return &resp, nil
}

func (s *ApplicationService) UpdateMenuItem(ctx context.Context, id int64, req UpdateMenuItemRequest) (*menuapp.ItemResponse, error) {
	patch := menu.Patch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		Available:     req.Available,
	}
	if patch.IsEmpty() {
		return nil, menu.NewInvalidItemError("", "no fields to update")
	}

	var updated *menu.Item
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "admin.update_menu_item")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		item, err := s.menus.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := item.Apply(patch); err != nil {
			return err
		}
		if err := s.menus.Save(ctx, item); err != nil {
			return err
		}
		uow.RegisterDirty(item)
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := menuapp.ToItemResponse(updated)
	return &resp, nil
}

// DeleteMenuItem fails with a conflict while orders reference the item.
func (s *ApplicationService) DeleteMenuItem(ctx context.Context, id int64) error {
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "admin.delete_menu_item")
	return uow.Execute(ctx, func(ctx context.Context) error {
		item, err := s.menus.FindByID(ctx, id)
		if err != nil {
			return err
		}
		item.MarkRemoved()
		if err := s.menus.Delete(ctx, id); err != nil {
			return err
		}
		uow.RegisterRemoved(item)
		return nil
	})
}

func (s *ApplicationService) Dashboard(ctx context.Context) (reporting.Dashboard, error) {
	return s.reports.Dashboard(ctx)
}

func (s *ApplicationService) Revenue(ctx context.Context, q RevenueQuery) ([]reporting.DailyRevenue, error) {
	var r reporting.DayRange
	var err error
	if q.StartDate != "" {
		if r.From, err = parseDay("start_date", q.StartDate); err != nil {
			return nil, err
		}
	}
	if q.EndDate != "" {
		if r.To, err = parseDay("end_date", q.EndDate); err != nil {
			return nil, err
		}
	}
	return s.reports.RevenueByDay(ctx, r)
}

func (s *ApplicationService) TopItems(ctx context.Context, limit int) ([]reporting.TopItem, error) {
	return s.reports.TopItems(ctx, limit)
}

func parseDay(field, raw string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, shared.NewValidationError("query", field, "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}
