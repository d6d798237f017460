package menu

import "context"

type Repository interface {
	// Save inserts a new item (ID 0) and assigns its identity, or updates all columns.
	Save(ctx context.Context, item *Item) error

	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByIDs returns the items that exist; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Item, error)

	// LockForOrder is FindByIDs with shared row locks held until the
	// surrounding transaction ends.
	LockForOrder(ctx context.Context, ids []int64) (map[int64]*Item, error)

	// List orders by category, then name.
	List(ctx context.Context, filter Filter) ([]*Item, error)

	// Categories lists distinct categories of available items, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Delete fails with a conflict error while order lines reference the item.
	Delete(ctx context.Context, id int64) error
}

// Filter for List. The zero value lists every item.
type Filter struct {
	Category string
	// Available nil means no availability filter.
	Available *bool
	Search    string
}

// PublicFilter applies the customer-facing default of available items only.
func PublicFilter(category string, available *bool, search string) Filter {
	if available == nil {
		t := true
		available = &t
	}
	return Filter{Category: category, Available: available, Search: search}
}

func (f Filter) Specification() Spec {
	var specs []Spec
	if f.Category != "" && f.Category != AllCategories {
		specs = append(specs, InCategory(f.Category))
	}
	if f.Available != nil {
		specs = append(specs, ByAvailability(*f.Available))
	}
	if f.Search != "" {
		specs = append(specs, MatchingText(f.Search))
	}
	return allOf(specs...)
}
