/*
Package order orchestrates the customer side of ordering.

Services open one Unit of Work per operation from the factory, register the
aggregates they touch, and let the Unit of Work write the recorded events to
the outbox before commit. They never publish events themselves.
*/
package order

import (
	"context"

	"campusfood/application/reporting"
	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/persistence"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type Dependencies struct {
	UnitOfWork  shared.UnitOfWorkFactory
	Orders      order.Repository
	Menus       menu.Repository
	Users       user.Repository
	Reports     *reporting.Service
	PricePolicy order.PricePolicy
	ListLimit   int
}

// ApplicationService is the customer-facing order service.
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orders     order.Repository
	placement  *order.PlacementService
	assembler  *Assembler
	reports    *reporting.Service
	listLimit  int
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	limit := deps.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &ApplicationService{
		uowFactory: deps.UnitOfWork,
		orders:     deps.Orders,
		placement:  order.NewPlacementService(NewCatalog(deps.Menus), deps.PricePolicy),
		assembler:  NewAssembler(deps.Menus, deps.Users),
		reports:    deps.Reports,
		listLimit:  limit,
	}
}

// PlaceOrder validates the cart against the catalog and stores header and
// lines in one transaction. Nothing is stored when any step fails.
func (s *ApplicationService) PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	cart, err := toCartLines(req.Items)
	if err != nil {
		return nil, err
	}

	var placed *order.Order
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "order.place")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, mismatches, err := s.placement.Place(ctx, userID, req.OrderType, cart)
		if err != nil {
			return err
		}
		for _, m := range mismatches {
			logger.FromContext(ctx).Warn("Submitted price differs from catalog, using catalog price",
				zap.Int64("user_id", userID),
				zap.Int64("menu_item_id", m.MenuItemID),
				zap.String("submitted", m.Submitted.String()),
				zap.String("catalog", m.Catalog.String()),
			)
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order placed",
		zap.Int64("order_id", placed.ID()),
		zap.Int64("user_id", userID),
		zap.Int("items", len(placed.Items())),
		zap.String("total_amount", placed.TotalAmount().String()),
	)
	return &PlaceOrderResponse{OrderID: placed.ID(), TotalAmount: placed.TotalAmount()}, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *ApplicationService) ListOrders(ctx context.Context, userID int64, q ListOrdersQuery) ([]OrderResponse, error) {
	criteria := order.Criteria{UserID: userID, Limit: s.limit(q.Limit)}
	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		criteria.Status = status
	}
	orders, err := s.orders.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, orders, false)
}

// GetOrder hides orders of other users behind NotFound.
func (s *ApplicationService) GetOrder(ctx context.Context, userID, orderID int64) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.BelongsTo(userID) {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	return s.assembler.AssembleOne(ctx, o)
}

// CancelOrder lets an owner cancel a Pending order.
func (s *ApplicationService) CancelOrder(ctx context.Context, userID, orderID int64) error {
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "order.cancel")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.CancelByOwner(userID); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Order cancelled by owner",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
	)
	return nil
}

func (s *ApplicationService) Stats(ctx context.Context, userID int64) (reporting.UserSummary, error) {
	return s.reports.UserSummary(ctx, userID)
}

func (s *ApplicationService) limit(requested int) int {
	switch {
	case requested <= 0:
		return s.listLimit
	case requested > MaxListLimit:
		return MaxListLimit
	default:
		return requested
	}
}
