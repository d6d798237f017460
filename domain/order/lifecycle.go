package order

import (
	"strings"
	"time"
)

// Status of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func AllStatuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}
}

// ParseStatus accepts exactly the five status names.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", NewInvalidStatusError(raw)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Type is how the order is served.
type Type string

const (
	TypeInhouse  Type = "Inhouse"
	TypeTakeaway Type = "Takeaway"
)

// ParseType defaults a blank value to Inhouse.
func ParseType(raw string) (Type, error) {
	switch strings.TrimSpace(raw) {
	case "":
		return TypeInhouse, nil
	case string(TypeInhouse):
		return TypeInhouse, nil
	case string(TypeTakeaway):
		return TypeTakeaway, nil
	default:
		return "", NewInvalidOrderError("order_type must be Inhouse or Takeaway")
	}
}

// TransitionPolicy decides which status moves an admin may make.
type TransitionPolicy interface {
	Allows(from, to Status) bool
}

// PermissivePolicy allows any known status from any status.
type PermissivePolicy struct{}

func (PermissivePolicy) Allows(_, _ Status) bool { return true }

// StrictPolicy follows the kitchen flow:
// Pending -> Preparing -> Ready -> Completed, with cancellation before Ready.
type StrictPolicy struct{}

var strictTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

func (StrictPolicy) Allows(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyFor returns the strict table when strict is set.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}

// CancelByOwner applies the owner cancellation rule.
// An order owned by someone else is reported as not found.
func (o *Order) CancelByOwner(userID int64) error {
	if !o.BelongsTo(userID) {
		return NewOrderNotFoundError(o.id)
	}
	if o.status != StatusPending {
		return NewCancellationNotAllowedError(o.status)
	}
	from := o.status
	o.status = StatusCancelled
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderCancelledEvent(o.aggregateID(), o.userID, from))
	return nil
}

// ChangeStatus applies an admin status update under policy.
// It reports false when target equals the current status.
func (o *Order) ChangeStatus(target Status, policy TransitionPolicy) (bool, error) {
	if _, err := ParseStatus(string(target)); err != nil {
		return false, err
	}
	if !policy.Allows(o.status, target) {
		return false, NewInvalidTransitionError(o.status, target)
	}
	if o.status == target {
		return false, nil
	}
	from := o.status
	o.status = target
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderStatusChangedEvent(o.aggregateID(), o.userID, from, target))
	return true, nil
}
