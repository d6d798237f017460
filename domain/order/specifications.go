package order

import (
	"context"
	"time"

	"campusfood/domain/shared"
)

type Spec = shared.Specification[*Order]

type ByUserSpecification struct {
	UserID int64
}

func (spec ByUserSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.UserID() == spec.UserID
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.Status() == spec.Status
}

// CreatedBetweenSpecification matches [Start, End). Zero bounds are open.
type CreatedBetweenSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec CreatedBetweenSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	at := o.CreatedAt()
	if !spec.Start.IsZero() && at.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && !at.Before(spec.End) {
		return false
	}
	return true
}

func ByUser(userID int64) Spec { return ByUserSpecification{UserID: userID} }

func ByStatus(status Status) Spec { return ByStatusSpecification{Status: status} }

// CreatedOn matches the UTC calendar day containing day.
func CreatedOn(day time.Time) Spec {
	start := DayStart(day)
	return CreatedBetweenSpecification{Start: start, End: start.AddDate(0, 0, 1)}
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allOf(specs ...Spec) Spec { return shared.AllOf(specs...) }
