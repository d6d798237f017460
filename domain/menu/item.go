/*
Package menu is the catalog subdomain: the items students can order.
*/
package menu

import (
	"strings"
	"time"

	"campusfood/domain/shared"
)

// AllCategories is the category filter value meaning "no filter".
const AllCategories = "All"

// Item is a menu item aggregate root.
type Item struct {
	id            int64
	name          string
	description   string
	price         shared.Money
	originalPrice *shared.Money
	category      string
	imageURL      string
	available     bool
	createdAt     time.Time
	updatedAt     time.Time

	events []shared.DomainEvent
}

// Draft is the input to NewItem.
type Draft struct {
	Name          string
	Description   string
	Price         shared.Money
	OriginalPrice *shared.Money
	Category      string
	ImageURL      string
	// Available defaults to true when nil.
	Available *bool
}

func NewItem(d Draft) (*Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, NewInvalidItemError("name", "name is required")
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return nil, NewInvalidItemError("category", "category is required")
	}
	if err := checkPrice("price", d.Price); err != nil {
		return nil, err
	}
	if d.OriginalPrice != nil {
		if err := checkPrice("original_price", *d.OriginalPrice); err != nil {
			return nil, err
		}
	}

	available := true
	if d.Available != nil {
		available = *d.Available
	}
	now := time.Now()
	return &Item{
		name:          name,
		description:   d.Description,
		price:         d.Price,
		originalPrice: d.OriginalPrice,
		category:      category,
		imageURL:      d.ImageURL,
		available:     available,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// checkPrice holds prices to what the money columns store exactly.
func checkPrice(field string, m shared.Money) error {
	switch {
	case !m.IsPositive():
		return NewInvalidItemError(field, field+" must be positive")
	case !m.IsWholeCents():
		return NewInvalidItemError(field, field+" must have at most two decimal places")
	case m.GreaterThan(shared.MaxMoney):
		return NewInvalidItemError(field, field+" exceeds "+shared.MaxMoney.String())
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name          *string
	Description   *string
	Price         *shared.Money
	OriginalPrice *shared.Money
	Category      *string
	ImageURL      *string
	Available     *bool
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.OriginalPrice == nil &&
		p.Category == nil && p.ImageURL == nil && p.Available == nil
}

// Apply validates the whole patch before touching the item.
func (i *Item) Apply(p Patch) error {
	if p.IsEmpty() {
		return NewInvalidItemError("", "no fields to update")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return NewInvalidItemError("name", "name cannot be empty")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return NewInvalidItemError("category", "category cannot be empty")
	}
	if p.Price != nil {
		if err := checkPrice("price", *p.Price); err != nil {
			return err
		}
	}
	if p.OriginalPrice != nil {
		if err := checkPrice("original_price", *p.OriginalPrice); err != nil {
			return err
		}
	}

	if p.Name != nil {
		i.name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		i.description = *p.Description
	}
	if p.Price != nil {
		i.price = *p.Price
	}
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		i.originalPrice = &op
	}
	if p.Category != nil {
		i.category = strings.TrimSpace(*p.Category)
	}
	if p.ImageURL != nil {
		i.imageURL = *p.ImageURL
	}
	if p.Available != nil {
		i.available = *p.Available
	}
	i.updatedAt = time.Now()
	i.events = append(i.events, NewItemUpdatedEvent(i.id, i.price, i.available))
	return nil
}

// AssignIdentity is called by the repository after insert.
func (i *Item) AssignIdentity(id int64) {
	first := i.id == 0
	i.id = id
	if first {
		i.events = append(i.events, NewItemCreatedEvent(i.id, i.name, i.price))
	}
}

func (i *Item) MarkRemoved() {
	i.events = append(i.events, NewItemDeletedEvent(i.id))
}

type ReconstructionDTO struct {
	ID            int64
	Name          string
	Description   string
	Price         shared.Money
	OriginalPrice *shared.Money
	Category      string
	ImageURL      string
	Available     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Item {
	return &Item{
		id:            dto.ID,
		name:          dto.Name,
		description:   dto.Description,
		price:         dto.Price,
		originalPrice: dto.OriginalPrice,
		category:      dto.Category,
		imageURL:      dto.ImageURL,
		available:     dto.Available,
		createdAt:     dto.CreatedAt,
		updatedAt:     dto.UpdatedAt,
	}
}

func (i *Item) ID() int64                    { return i.id }
func (i *Item) Name() string                 { return i.name }
func (i *Item) Description() string          { return i.description }
func (i *Item) Price() shared.Money          { return i.price }
func (i *Item) OriginalPrice() *shared.Money { return i.originalPrice }
func (i *Item) Category() string             { return i.category }
func (i *Item) ImageURL() string             { return i.imageURL }
func (i *Item) IsAvailable() bool            { return i.available }
func (i *Item) CreatedAt() time.Time         { return i.createdAt }
func (i *Item) UpdatedAt() time.Time         { return i.updatedAt }

func (i *Item) PullEvents() []shared.DomainEvent {
	events := i.events
	i.events = nil
	return events
}

var _ shared.AggregateRoot = (*Item)(nil)
