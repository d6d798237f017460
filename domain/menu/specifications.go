package menu

import (
	"context"
	"strings"

	"campusfood/domain/shared"
)

type Spec = shared.Specification[*Item]

type InCategorySpecification struct {
	Category string
}

func (spec InCategorySpecification) IsSatisfiedBy(_ context.Context, item *Item) bool {
	return item.Category() == spec.Category
}

type ByAvailabilitySpecification struct {
	Available bool
}

func (spec ByAvailabilitySpecification) IsSatisfiedBy(_ context.Context, item *Item) bool {
	return item.IsAvailable() == spec.Available
}

// MatchingTextSpecification is a case-insensitive substring match on name or description.
type MatchingTextSpecification struct {
	Text string
}

func (spec MatchingTextSpecification) IsSatisfiedBy(_ context.Context, item *Item) bool {
	needle := strings.ToLower(spec.Text)
	return strings.Contains(strings.ToLower(item.Name()), needle) ||
		strings.Contains(strings.ToLower(item.Description()), needle)
}

func InCategory(category string) Spec { return InCategorySpecification{Category: category} }

func ByAvailability(available bool) Spec { return ByAvailabilitySpecification{Available: available} }

func MatchingText(text string) Spec { return MatchingTextSpecification{Text: text} }

func allOf(specs ...Spec) Spec { return shared.AllOf(specs...) }
