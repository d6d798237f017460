/*
Package order is the ordering subdomain.

An Order is a header plus immutable line items. The total is fixed when the
order is built and every line carries the unit price captured at that moment,
so later catalog edits never reach historical orders. After creation only the
status (and updated_at) ever changes.
*/
package order

import (
	"strconv"
	"time"

	"campusfood/domain/shared"
)

// Order aggregate root
type Order struct {
	id          int64
	userID      int64
	items       []Item
	totalAmount shared.Money
	status      Status
	orderType   Type
	createdAt   time.Time
	updatedAt   time.Time

	events []shared.DomainEvent
	isNew  bool
}

// Item is a line of an order. It is reachable only through its Order.
type Item struct {
	id         int64
	menuItemID int64
	quantity   int
	unitPrice  shared.Money
}

// Line is a validated, priced cart line ready to become an Item.
type Line struct {
	MenuItemID int64
	Quantity   int
	UnitPrice  shared.Money
}

// NewOrder builds a Pending order from priced lines and computes its total.
// Callers validate the cart first; NewOrder re-checks only the structural invariants.
func NewOrder(userID int64, orderType Type, lines []Line) (*Order, error) {
	if userID <= 0 {
		return nil, NewInvalidOrderError("order must belong to a user")
	}
	if len(lines) == 0 {
		return nil, NewEmptyOrderError()
	}
	if orderType == "" {
		orderType = TypeInhouse
	}

	items := make([]Item, len(lines))
	total := shared.ZeroMoney()
	for i, line := range lines {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return nil, NewInvalidLineError(line.MenuItemID, "quantity out of range")
		}
		if !line.UnitPrice.IsPositive() || !line.UnitPrice.IsWholeCents() {
			return nil, NewInvalidLineError(line.MenuItemID, "price must be a positive amount in whole cents")
		}
		items[i] = Item{
			menuItemID: line.MenuItemID,
			quantity:   line.Quantity,
			unitPrice:  line.UnitPrice,
		}
		total = total.Add(line.UnitPrice.Multiply(line.Quantity))
	}
	if total.GreaterThan(shared.MaxMoney) {
		return nil, NewInvalidOrderError("order total exceeds " + shared.MaxMoney.String())
	}

	now := time.Now()
	return &Order{
		userID:      userID,
		items:       items,
		totalAmount: total,
		status:      StatusPending,
		orderType:   orderType,
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
	}, nil
}

// AssignIdentity is called by the repository once the header row exists.
// Item ids follow the order they were inserted in.
func (o *Order) AssignIdentity(id int64, itemIDs []int64) {
	o.id = id
	for i := range o.items {
		if i < len(itemIDs) {
			o.items[i].id = itemIDs[i]
		}
	}
	if o.isNew {
		o.events = append(o.events, NewOrderPlacedEvent(o))
		o.isNew = false
	}
}

// ReconstructionDTO carries stored state back into an Order.
// Only repositories use it.
type ReconstructionDTO struct {
	ID          int64
	UserID      int64
	Items       []Item
	TotalAmount shared.Money
	Status      Status
	Type        Type
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:          dto.ID,
		userID:      dto.UserID,
		items:       dto.Items,
		totalAmount: dto.TotalAmount,
		status:      dto.Status,
		orderType:   dto.Type,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}

type ItemReconstructionDTO struct {
	ID         int64
	MenuItemID int64
	Quantity   int
	UnitPrice  shared.Money
}

func RebuildItemFromDTO(dto ItemReconstructionDTO) Item {
	return Item{
		id:         dto.ID,
		menuItemID: dto.MenuItemID,
		quantity:   dto.Quantity,
		unitPrice:  dto.UnitPrice,
	}
}

func (o *Order) ID() int64     { return o.id }
func (o *Order) UserID() int64 { return o.userID }

// Items returns a copy; callers cannot reach the aggregate's slice.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Type() Type                { return o.orderType }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Order) IsNew() bool               { return o.isNew }
func (o *Order) BelongsTo(userID int64) bool {
	return o.userID == userID
}

// MarkRemoved records the deletion event; the repository performs the delete.
func (o *Order) MarkRemoved() {
	o.events = append(o.events, NewOrderDeletedEvent(o.id))
}

func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) aggregateID() string { return strconv.FormatInt(o.id, 10) }

func (item Item) ID() int64               { return item.id }
func (item Item) MenuItemID() int64       { return item.menuItemID }
func (item Item) Quantity() int           { return item.quantity }
func (item Item) UnitPrice() shared.Money { return item.unitPrice }
func (item Item) Subtotal() shared.Money  { return item.unitPrice.Multiply(item.quantity) }

var _ shared.AggregateRoot = (*Order)(nil)
