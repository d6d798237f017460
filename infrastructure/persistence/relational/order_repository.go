package relational

import (
	"context"
	"fmt"

	"campusfood/domain/order"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts header and items of a new order, or writes the status of an existing one.
// Outside a unit of work the insert runs in its own transaction.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if !o.IsNew() {
		return r.updateStatus(ctx, o)
	}
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.insert(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.insert(tx, o)
	})
}

func (r *OrderRepository) insert(tx *gorm.DB, o *order.Order) error {
	header, items := po.FromOrderDomain(o)
	if err := tx.Create(header).Error; err != nil {
		return wrapErr("order", "insert", err)
	}
	for i := range items {
		items[i].OrderID = header.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		return orderItemInsertErr(err)
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	o.AssignIdentity(header.ID, ids)
	return nil
}

// orderItemInsertErr reports a dangling menu_item_id as an unavailable item.
// The driver error does not say which line failed.
func orderItemInsertErr(err error) error {
	if isForeignKeyViolation(err) {
		return order.NewItemUnavailableError(0)
	}
	return wrapErr("order item", "insert", err)
}

func (r *OrderRepository) updateStatus(ctx context.Context, o *order.Order) error {
	result := r.getDB(ctx).Model(&po.OrderPO{}).
		Where("id = ?", o.ID()).
		Updates(map[string]any{
			"status":     string(o.Status()),
			"updated_at": o.UpdatedAt(),
		})
	if result.Error != nil {
		return wrapErr("order", "update status", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.NewOrderNotFoundError(o.ID())
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	db := r.getDB(ctx)
	var header po.OrderPO
	if err := db.First(&header, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, wrapErr("order", "find", err)
	}

	var items []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Order("id").Find(&items).Error; err != nil {
		return nil, wrapErr("order item", "find", err)
	}
	return header.ToDomain(items), nil
}

func (r *OrderRepository) Find(ctx context.Context, criteria order.Criteria) ([]*order.Order, error) {
	scope, ok := translate(criteria.Specification())
	if !ok {
		return nil, fmt.Errorf("order criteria cannot be expressed in SQL")
	}

	db := r.getDB(ctx)
	query := db.Scopes(scope).Order("created_at DESC").Order("id DESC")
	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit)
	}
	var headers []po.OrderPO
	if err := query.Find(&headers).Error; err != nil {
		return nil, wrapErr("order", "list", err)
	}
	if len(headers) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]int64, len(headers))
	for i := range headers {
		ids[i] = headers[i].ID
	}
	var items []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, wrapErr("order item", "list", err)
	}
	byOrder := make(map[int64][]po.OrderItemPO, len(headers))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(headers))
	for i := range headers {
		orders[i] = headers[i].ToDomain(byOrder[headers[i].ID])
	}
	return orders, nil
}

// Delete removes items first so it works without ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	del := func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&po.OrderItemPO{}).Error; err != nil {
			return wrapErr("order item", "delete", err)
		}
		result := tx.Delete(&po.OrderPO{}, id)
		if result.Error != nil {
			return wrapErr("order", "delete", result.Error)
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(id)
		}
		return nil
	}
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return del(tx)
	}
	return r.db.WithContext(ctx).Transaction(del)
}

var _ order.Repository = (*OrderRepository)(nil)
