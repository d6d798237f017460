package relational

import (
	"context"
	"testing"
	"time"

	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence/relational/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "campus:campus@tcp(127.0.0.1:3306)/campus_food?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestTranslate_OrderCriteria(t *testing.T) {
	db := dryRunDB(t)
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	scope, ok := translate(order.Criteria{UserID: 7, Status: order.StatusPending, Date: day}.Specification())
	require.True(t, ok)

	stmt := db.Model(&po.OrderPO{}).Scopes(scope).Find(&[]po.OrderPO{}).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "user_id = ?")
	assert.Contains(t, sql, "status = ?")
	assert.Contains(t, sql, "created_at >= ? AND created_at < ?")
	assert.Equal(t, []any{
		int64(7),
		"Pending",
		time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}, stmt.Vars)
}

func TestTranslate_EmptyCriteriaAddsNoWhere(t *testing.T) {
	db := dryRunDB(t)

	scope, ok := translate(order.Criteria{}.Specification())
	require.True(t, ok)

	stmt := db.Model(&po.OrderPO{}).Scopes(scope).Find(&[]po.OrderPO{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "WHERE")
}

func TestTranslate_MenuSearchEscapesWildcards(t *testing.T) {
	db := dryRunDB(t)
	available := true

	scope, ok := translate(menu.Filter{Category: "Snacks", Available: &available, Search: "50%_Off"}.Specification())
	require.True(t, ok)

	stmt := db.Model(&po.MenuItemPO{}).Scopes(scope).Find(&[]po.MenuItemPO{}).Statement
	assert.Contains(t, stmt.SQL.String(), "LOWER(name) LIKE ?")
	assert.Equal(t, []any{"Snacks", true, `%50\%\_off%`, `%50\%\_off%`}, stmt.Vars)
}

func TestTranslate_AllCategoriesIsNoFilter(t *testing.T) {
	db := dryRunDB(t)

	scope, ok := translate(menu.Filter{Category: menu.AllCategories}.Specification())
	require.True(t, ok)

	stmt := db.Model(&po.MenuItemPO{}).Scopes(scope).Find(&[]po.MenuItemPO{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "category")
}

func TestTranslate_OrAndNot(t *testing.T) {
	db := dryRunDB(t)
	spec := shared.And(
		shared.Or(order.ByStatus(order.StatusPending), order.ByStatus(order.StatusReady)),
		shared.Not(order.ByUser(3)),
	)

	scope, ok := translate(spec)
	require.True(t, ok)

	stmt := db.Model(&po.OrderPO{}).Scopes(scope).Find(&[]po.OrderPO{}).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "OR")
	assert.Contains(t, sql, "NOT")
	assert.Equal(t, []any{"Pending", "Ready", int64(3)}, stmt.Vars)
}

type placedByNightOwl struct{}

func (placedByNightOwl) IsSatisfiedBy(_ context.Context, o *order.Order) bool {
	return o.CreatedAt().Hour() < 5
}

func TestTranslate_RefusesUnknownSpecification(t *testing.T) {
	_, ok := translate(shared.And(order.ByUser(1), order.Spec(placedByNightOwl{})))
	assert.False(t, ok)
}
