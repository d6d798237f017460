package menu

import (
	"fmt"

	"campusfood/domain/shared"
)

func NewInvalidItemError(field, reason string) error {
	return shared.NewValidationError("menu item", field, reason)
}

func NewItemNotFoundError(id int64) error {
	return shared.NewNotFoundError("menu item", id)
}

// NewItemInUseError is returned when order lines still reference the item.
func NewItemInUseError(id int64) error {
	return shared.NewConflictError("menu item",
		fmt.Sprintf("menu item %d is referenced by existing orders; mark it unavailable instead", id))
}
