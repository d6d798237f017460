package po

import (
	"time"

	"campusfood/infrastructure/outbox"
)

type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null;index"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (OutboxEventPO) TableName() string { return "outbox_events" }

func FromRecord(r outbox.Record) *OutboxEventPO {
	return &OutboxEventPO{
		ID:          r.ID,
		AggregateID: r.AggregateID,
		EventType:   r.EventType,
		Payload:     r.Payload,
		Status:      string(r.Status),
		RetryCount:  r.RetryCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (p *OutboxEventPO) ToRecord() outbox.Record {
	return outbox.Record{
		ID:          p.ID,
		AggregateID: p.AggregateID,
		EventType:   p.EventType,
		Payload:     p.Payload,
		Status:      outbox.Status(p.Status),
		RetryCount:  p.RetryCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// All lists every table in creation order.
func All() []any {
	return []any{&UserPO{}, &MenuItemPO{}, &OrderPO{}, &OrderItemPO{}, &OutboxEventPO{}}
}
