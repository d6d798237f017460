package relational

import (
	"context"
	"fmt"

	"campusfood/infrastructure/persistence/relational/po"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type foreignKey struct {
	model      any
	table      string
	name       string
	column     string
	references string
	onDelete   string
}

// Row types carry no associations, so the keys are declared here.
var foreignKeys = []foreignKey{
	{&po.OrderPO{}, "orders", "fk_orders_user", "user_id", "users(id)", "RESTRICT"},
	{&po.OrderItemPO{}, "order_items", "fk_order_items_order", "order_id", "orders(id)", "CASCADE"},
	{&po.OrderItemPO{}, "order_items", "fk_order_items_menu_item", "menu_item_id", "menu_items(id)", "RESTRICT"},
}

// Migrate creates or updates every table, then adds missing foreign keys.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(po.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	m := db.Migrator()
	for _, fk := range foreignKeys {
		if m.HasConstraint(fk.model, fk.name) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s",
			fk.table, fk.name, fk.column, fk.references, fk.onDelete)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", fk.name, err)
		}
		logger.Info("Foreign key created", zap.String("constraint", fk.name))
	}
	return nil
}
