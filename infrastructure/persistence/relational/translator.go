package relational

import (
	"strings"

	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"

	"gorm.io/gorm"
)

// Scope is a GORM query modifier.
type Scope = func(*gorm.DB) *gorm.DB

// translate turns a specification into a WHERE scope. ok is false when some
// part of the tree has no SQL form; callers must then refuse the query rather
// than silently widen it.
func translate[T any](spec shared.Specification[T]) (Scope, bool) {
	if spec == nil {
		return func(db *gorm.DB) *gorm.DB { return db }, true
	}

	switch s := any(spec).(type) {
	case shared.AndSpecification[T]:
		left, okL := translate(s.Left)
		right, okR := translate(s.Right)
		if !okL || !okR {
			return nil, false
		}
		return func(db *gorm.DB) *gorm.DB { return right(left(db)) }, true
	case shared.OrSpecification[T]:
		left, okL := condition(s.Left)
		right, okR := condition(s.Right)
		if !okL || !okR {
			return nil, false
		}
		return func(db *gorm.DB) *gorm.DB {
			return db.Where(db.Session(&gorm.Session{NewDB: true}).Where(left.sql, left.args...).Or(right.sql, right.args...))
		}, true
	case shared.NotSpecification[T]:
		inner, ok := condition(s.Spec)
		if !ok {
			return nil, false
		}
		return func(db *gorm.DB) *gorm.DB { return db.Not(inner.sql, inner.args...) }, true
	}

	c, ok := condition(spec)
	if !ok {
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(c.sql, c.args...) }, true
}

type sqlCondition struct {
	sql  string
	args []any
}

// condition handles the leaf specifications of each subdomain.
func condition[T any](spec shared.Specification[T]) (sqlCondition, bool) {
	switch s := any(spec).(type) {
	case order.ByUserSpecification:
		return sqlCondition{"user_id = ?", []any{s.UserID}}, true
	case order.ByStatusSpecification:
		return sqlCondition{"status = ?", []any{string(s.Status)}}, true
	case order.CreatedBetweenSpecification:
		switch {
		case !s.Start.IsZero() && !s.End.IsZero():
			return sqlCondition{"created_at >= ? AND created_at < ?", []any{s.Start, s.End}}, true
		case !s.Start.IsZero():
			return sqlCondition{"created_at >= ?", []any{s.Start}}, true
		case !s.End.IsZero():
			return sqlCondition{"created_at < ?", []any{s.End}}, true
		default:
			return sqlCondition{"1 = 1", nil}, true
		}
	case menu.InCategorySpecification:
		return sqlCondition{"category = ?", []any{s.Category}}, true
	case menu.ByAvailabilitySpecification:
		return sqlCondition{"available = ?", []any{s.Available}}, true
	case menu.MatchingTextSpecification:
		pattern := "%" + escapeLike(strings.ToLower(s.Text)) + "%"
		return sqlCondition{"(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", []any{pattern, pattern}}, true
	}
	return sqlCondition{}, false
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
