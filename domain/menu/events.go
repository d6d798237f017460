package menu

import (
	"strconv"
	"time"

	"campusfood/domain/shared"
)

type ItemCreatedEvent struct {
	itemID     int64
	name       string
	price      string
	occurredOn time.Time
}

func NewItemCreatedEvent(itemID int64, name string, price shared.Money) *ItemCreatedEvent {
	return &ItemCreatedEvent{itemID: itemID, name: name, price: price.String(), occurredOn: time.Now()}
}

func (e *ItemCreatedEvent) EventName() string      { return "menu.item_created" }
func (e *ItemCreatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ItemCreatedEvent) GetAggregateID() string { return strconv.FormatInt(e.itemID, 10) }
func (e *ItemCreatedEvent) Payload() map[string]any {
	return map[string]any{"menu_item_id": e.itemID, "name": e.name, "price": e.price}
}

type ItemUpdatedEvent struct {
	itemID     int64
	price      string
	available  bool
	occurredOn time.Time
}

func NewItemUpdatedEvent(itemID int64, price shared.Money, available bool) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{itemID: itemID, price: price.String(), available: available, occurredOn: time.Now()}
}

func (e *ItemUpdatedEvent) EventName() string      { return "menu.item_updated" }
func (e *ItemUpdatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ItemUpdatedEvent) GetAggregateID() string { return strconv.FormatInt(e.itemID, 10) }
func (e *ItemUpdatedEvent) Payload() map[string]any {
	return map[string]any{"menu_item_id": e.itemID, "price": e.price, "available": e.available}
}

type ItemDeletedEvent struct {
	itemID     int64
	occurredOn time.Time
}

func NewItemDeletedEvent(itemID int64) *ItemDeletedEvent {
	return &ItemDeletedEvent{itemID: itemID, occurredOn: time.Now()}
}

func (e *ItemDeletedEvent) EventName() string      { return "menu.item_deleted" }
func (e *ItemDeletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ItemDeletedEvent) GetAggregateID() string { return strconv.FormatInt(e.itemID, 10) }
func (e *ItemDeletedEvent) Payload() map[string]any {
	return map[string]any{"menu_item_id": e.itemID}
}
