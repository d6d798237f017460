package order

import (
	"context"
	"fmt"

	"campusfood/domain/shared"
)

// PricePolicy decides what happens when a cart line's price disagrees with the catalog.
type PricePolicy string

const (
	// PriceCatalog persists the catalog price and reports the mismatch.
	PriceCatalog PricePolicy = "catalog"
	// PriceStrict rejects the order on any mismatch.
	PriceStrict PricePolicy = "strict"
)

func ParsePricePolicy(raw string) (PricePolicy, error) {
	switch PricePolicy(raw) {
	case PriceCatalog, "":
		return PriceCatalog, nil
	case PriceStrict:
		return PriceStrict, nil
	default:
		return "", fmt.Errorf("unknown price policy %q", raw)
	}
}

// CatalogEntry is the slice of a menu item the order engine needs.
type CatalogEntry struct {
	MenuItemID int64
	Price      shared.Money
	Available  bool
}

// Catalog resolves menu items for placement.
// Implementations called inside a transaction lock the rows they return.
type Catalog interface {
	LookupForOrder(ctx context.Context, menuItemIDs []int64) (map[int64]CatalogEntry, error)
}

// MaxLineQuantity is the most units a single cart line may ask for.
const MaxLineQuantity = 999

// CartLine is an unvalidated line as the client submitted it.
// Nil fields mean the client omitted them.
type CartLine struct {
	MenuItemID *int64
	Quantity   *int
	Price      *shared.Money
}

// PriceMismatch records a line whose submitted price differs from the catalog.
type PriceMismatch struct {
	MenuItemID int64
	Submitted  shared.Money
	Catalog    shared.Money
}

// PlacementService turns a cart into an Order.
// It reads through Catalog and never persists anything itself.
type PlacementService struct {
	catalog Catalog
	policy  PricePolicy
}

func NewPlacementService(catalog Catalog, policy PricePolicy) *PlacementService {
	if policy == "" {
		policy = PriceCatalog
	}
	return &PlacementService{catalog: catalog, policy: policy}
}

func (s *PlacementService) Policy() PricePolicy { return s.policy }

// Place validates the cart in order, stopping at the first failure:
// shape of the cart, shape of each line, catalog availability, then order type.
// The returned mismatches are only populated under PriceCatalog.
func (s *PlacementService) Place(ctx context.Context, userID int64, rawType string, cart []CartLine) (*Order, []PriceMismatch, error) {
	if len(cart) == 0 {
		return nil, nil, NewEmptyOrderError()
	}

	ids := make([]int64, 0, len(cart))
	seen := make(map[int64]struct{}, len(cart))
	for _, line := range cart {
		if err := checkLineShape(line); err != nil {
			return nil, nil, err
		}
		if _, ok := seen[*line.MenuItemID]; !ok {
			seen[*line.MenuItemID] = struct{}{}
			ids = append(ids, *line.MenuItemID)
		}
	}

	entries, err := s.catalog.LookupForOrder(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]Line, 0, len(cart))
	var mismatches []PriceMismatch
	for _, cl := range cart {
		id := *cl.MenuItemID
		entry, ok := entries[id]
		if !ok || !entry.Available {
			return nil, nil, NewItemUnavailableError(id)
		}
		if !cl.Price.Equals(entry.Price) {
			if s.policy == PriceStrict {
				return nil, nil, NewPriceMismatchError(id, *cl.Price, entry.Price)
			}
			mismatches = append(mismatches, PriceMismatch{MenuItemID: id, Submitted: *cl.Price, Catalog: entry.Price})
		}
		lines = append(lines, Line{MenuItemID: id, Quantity: *cl.Quantity, UnitPrice: entry.Price})
	}

	orderType, err := ParseType(rawType)
	if err != nil {
		return nil, nil, err
	}

	o, err := NewOrder(userID, orderType, lines)
	if err != nil {
		return nil, nil, err
	}
	return o, mismatches, nil
}

func checkLineShape(line CartLine) error {
	var id int64
	if line.MenuItemID != nil {
		id = *line.MenuItemID
	}
	switch {
	case line.MenuItemID == nil || *line.MenuItemID <= 0:
		return NewInvalidLineError(id, "menu_item_id is required")
	case line.Quantity == nil:
		return NewInvalidLineError(id, "quantity is required")
	case *line.Quantity <= 0:
		return NewInvalidLineError(id, "quantity must be positive")
	case *line.Quantity > MaxLineQuantity:
		return NewInvalidLineError(id, fmt.Sprintf("quantity must not exceed %d", MaxLineQuantity))
	case line.Price == nil:
		return NewInvalidLineError(id, "price is required")
	case !line.Price.IsPositive():
		return NewInvalidLineError(id, "price must be positive")
	case !line.Price.IsWholeCents():
		return NewInvalidLineError(id, "price must have at most two decimal places")
	}
	return nil
}
