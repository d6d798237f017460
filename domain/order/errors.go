package order

import (
	"errors"
	"fmt"

	"campusfood/domain/shared"
)

var (
	// ErrInvalidOrder the cart is empty or a line is malformed.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrItemUnavailable a referenced menu item does not exist or is not available.
	ErrItemUnavailable = errors.New("item unavailable")

	// ErrCancellationNotAllowed owners may cancel only Pending orders.
	ErrCancellationNotAllowed = errors.New("cancellation not allowed")

	// ErrInvalidStatus the requested status is not one of the known statuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition the status is known but the lifecycle policy forbids the move.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrOrderNotFound = errors.New("order not found")
)

func NewInvalidOrderError(message string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		kind:     shared.ErrInvalidInput,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

func NewEmptyOrderError() error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		kind:     shared.ErrInvalidInput,
		field:    "items",
		message:  "order must contain at least one item",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidLineError names the offending menu item when the line carried one.
func NewInvalidLineError(menuItemID int64, reason string) error {
	msg := "invalid order item: " + reason
	if menuItemID > 0 {
		msg = fmt.Sprintf("invalid order item for menu item %d: %s", menuItemID, reason)
	}
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		kind:     shared.ErrInvalidInput,
		field:    "items",
		message:  msg,
		stack:    shared.CaptureStack(3),
	}
}

func NewPriceMismatchError(menuItemID int64, asserted, catalog shared.Money) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		kind:     shared.ErrInvalidInput,
		field:    "price",
		message: fmt.Sprintf("price mismatch for menu item %d: submitted %s, current price %s",
			menuItemID, asserted, catalog),
		stack: shared.CaptureStack(3),
	}
}

// NewItemUnavailableError takes 0 when the store cannot tell which item is gone.
func NewItemUnavailableError(menuItemID int64) error {
	msg := "a referenced menu item no longer exists"
	if menuItemID > 0 {
		msg = fmt.Sprintf("menu item %d not found or not available", menuItemID)
	}
	return &orderDomainError{
		sentinel: ErrItemUnavailable,
		kind:     shared.ErrInvalidInput,
		message:  msg,
		stack:    shared.CaptureStack(3),
	}
}

func NewCancellationNotAllowedError(current Status) error {
	return &orderDomainError{
		sentinel: ErrCancellationNotAllowed,
		kind:     shared.ErrInvalidInput,
		message:  fmt.Sprintf("cannot cancel order with status %s; only Pending orders can be cancelled", current),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidStatusError(raw string) error {
	return &orderDomainError{
		sentinel: ErrInvalidStatus,
		kind:     shared.ErrInvalidInput,
		field:    "status",
		message:  fmt.Sprintf("invalid status %q; must be one of %v", raw, AllStatuses()),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidTransitionError(from, to Status) error {
	return &orderDomainError{
		sentinel: ErrInvalidTransition,
		kind:     shared.ErrInvalidInput,
		field:    "status",
		message:  fmt.Sprintf("cannot move order from %s to %s", from, to),
		stack:    shared.CaptureStack(3),
	}
}

func NewOrderNotFoundError(orderID int64) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		message:  fmt.Sprintf("order %d not found", orderID),
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError matches both its own sentinel and the shared kind.
type orderDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string { return e.message }

func (e *orderDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }

func (e *orderDomainError) Stack() []string { return shared.FormatStack(e.stack) }
