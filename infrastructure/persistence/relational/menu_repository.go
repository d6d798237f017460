package relational

import (
	"context"
	"fmt"

	"campusfood/domain/menu"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save writes every column; a Patch has already been applied to the aggregate.
func (r *MenuRepository) Save(ctx context.Context, item *menu.Item) error {
	row := po.FromMenuDomain(item)
	db := r.getDB(ctx)
	if item.ID() == 0 {
		if err := db.Create(row).Error; err != nil {
			return wrapErr("menu item", "insert", err)
		}
		item.AssignIdentity(row.ID)
		return nil
	}

	result := db.Model(&po.MenuItemPO{}).Where("id = ?", row.ID).Select("*").Omit("id", "created_at").Updates(row)
	if result.Error != nil {
		return wrapErr("menu item", "update", result.Error)
	}
	if result.RowsAffected == 0 {
		return menu.NewItemNotFoundError(row.ID)
	}
	return nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id int64) (*menu.Item, error) {
	var row po.MenuItemPO
	if err := r.getDB(ctx).First(&row, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, menu.NewItemNotFoundError(id)
		}
		return nil, wrapErr("menu item", "find", err)
	}
	return row.ToDomain(), nil
}

func (r *MenuRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	return r.findMany(r.getDB(ctx), ids)
}

// LockForOrder takes FOR SHARE locks: concurrent placements proceed together,
// while an admin update of the same rows waits for them to commit.
func (r *MenuRepository) LockForOrder(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	db := r.getDB(ctx)
	if persistence.TxFromContext(ctx) != nil {
		db = db.Clauses(clause.Locking{Strength: "SHARE"})
	}
	return r.findMany(db, ids)
}

func (r *MenuRepository) findMany(db *gorm.DB, ids []int64) (map[int64]*menu.Item, error) {
	out := make(map[int64]*menu.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []po.MenuItemPO
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, wrapErr("menu item", "find", err)
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *MenuRepository) List(ctx context.Context, filter menu.Filter) ([]*menu.Item, error) {
	scope, ok := translate(filter.Specification())
	if !ok {
		return nil, fmt.Errorf("menu filter cannot be expressed in SQL")
	}
	var rows []po.MenuItemPO
	if err := r.getDB(ctx).Scopes(scope).Order("category").Order("name").Find(&rows).Error; err != nil {
		return nil, wrapErr("menu item", "list", err)
	}
	items := make([]*menu.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.getDB(ctx).Model(&po.MenuItemPO{}).
		Where("available = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, wrapErr("menu item", "categories", err)
	}
	return categories, nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	db := r.getDB(ctx)

	var refs int64
	if err := db.Model(&po.OrderItemPO{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
		return wrapErr("menu item", "count references", err)
	}
	if refs > 0 {
		return menu.NewItemInUseError(id)
	}

	result := db.Delete(&po.MenuItemPO{}, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return menu.NewItemInUseError(id)
		}
		return wrapErr("menu item", "delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return menu.NewItemNotFoundError(id)
	}
	return nil
}

var _ menu.Repository = (*MenuRepository)(nil)
