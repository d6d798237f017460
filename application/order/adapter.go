package order

import (
	"context"

	"campusfood/domain/menu"
	"campusfood/domain/order"
)

// catalogAdapter adapts menu.Repository to the catalog the placement service reads.
// LockForOrder makes the lookup hold share locks inside the placement transaction.
type catalogAdapter struct {
	menus menu.Repository
}

func NewCatalog(menus menu.Repository) order.Catalog {
	return &catalogAdapter{menus: menus}
}

func (a *catalogAdapter) LookupForOrder(ctx context.Context, ids []int64) (map[int64]order.CatalogEntry, error) {
	items, err := a.menus.LockForOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make(map[int64]order.CatalogEntry, len(items))
	for id, item := range items {
		entries[id] = order.CatalogEntry{
			MenuItemID: id,
			Price:      item.Price(),
			Available:  item.IsAvailable(),
		}
	}
	return entries, nil
}
