package memory

import (
	"context"
	"sort"

	"campusfood/domain/order"
	"campusfood/domain/shared"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func orderDTO(o *order.Order) order.ReconstructionDTO {
	return order.ReconstructionDTO{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       o.Items(),
		TotalAmount: o.TotalAmount(),
		Status:      o.Status(),
		Type:        o.Type(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// Save inserts header then items one by one, so a fault on any item
// discards the whole order.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.store.write(ctx, func(st *state) error {
		if !o.IsNew() {
			existing, ok := st.orders[o.ID()]
			if !ok {
				return order.NewOrderNotFoundError(o.ID())
			}
			if err := r.store.fault("order.update"); err != nil {
				return err
			}
			existing.Status = o.Status()
			existing.UpdatedAt = o.UpdatedAt()
			st.orders[o.ID()] = existing
			return nil
		}

		if err := r.store.fault("order.insert"); err != nil {
			return err
		}
		orderID := st.lastOrderID + 1
		nextItemID := st.lastOrderItemID
		items := o.Items()
		itemIDs := make([]int64, len(items))
		for i, item := range items {
			if err := r.store.fault("order_item.insert"); err != nil {
				return err
			}
			if _, ok := st.menu[item.MenuItemID()]; !ok {
				return order.NewItemUnavailableError(item.MenuItemID())
			}
			nextItemID++
			itemIDs[i] = nextItemID
		}

		st.lastOrderID = orderID
		st.lastOrderItemID = nextItemID
		o.AssignIdentity(orderID, itemIDs)
		st.orders[orderID] = orderDTO(o)
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	var found *order.Order
	err := r.store.read(ctx, func(st *state) error {
		dto, ok := st.orders[id]
		if !ok {
			return order.NewOrderNotFoundError(id)
		}
		found = order.RebuildFromDTO(dto)
		return nil
	})
	return found, err
}

func (r *OrderRepository) Find(ctx context.Context, criteria order.Criteria) ([]*order.Order, error) {
	spec := criteria.Specification()
	orders := []*order.Order{}
	err := r.store.read(ctx, func(st *state) error {
		for _, dto := range st.orders {
			o := order.RebuildFromDTO(dto)
			if shared.Satisfies(ctx, spec, o) {
				orders = append(orders, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().After(orders[j].CreatedAt())
		}
		return orders[i].ID() > orders[j].ID()
	})
	if criteria.Limit > 0 && len(orders) > criteria.Limit {
		orders = orders[:criteria.Limit]
	}
	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return order.NewOrderNotFoundError(id)
		}
		if err := r.store.fault("order.delete"); err != nil {
			return err
		}
		delete(st.orders, id)
		return nil
	})
}

// CountRows reports stored orders and order lines.
func (s *Store) CountRows(ctx context.Context) (orders, items int) {
	_ = s.read(ctx, func(st *state) error {
		orders = len(st.orders)
		for _, o := range st.orders {
			items += len(o.Items)
		}
		return nil
	})
	return orders, items
}

var _ order.Repository = (*OrderRepository)(nil)
