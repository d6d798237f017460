package relational

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedStatement struct {
	SQL  string
	Vars []any
}

// recordStatements captures every query and insert the dry-run db renders.
// Inserts get ids the way an auto-increment column would hand them out:
// 42 for an order header, 100, 101, ... for the rows of a batch.
func recordStatements(t *testing.T, db *gorm.DB) *[]recordedStatement {
	t.Helper()
	var stmts []recordedStatement
	record := func(tx *gorm.DB) {
		stmts = append(stmts, recordedStatement{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]any(nil), tx.Statement.Vars...),
		})
	}
	assignIDs := func(tx *gorm.DB) {
		record(tx)
		pk := tx.Statement.Schema.PrioritizedPrimaryField
		rv := tx.Statement.ReflectValue
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				require.NoError(t, pk.Set(tx.Statement.Context, rv.Index(i), int64(100+i)))
			}
		case reflect.Struct:
			require.NoError(t, pk.Set(tx.Statement.Context, rv, int64(42)))
		}
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:record_create", assignIDs))
	return &stmts
}

// dryRunTx stands in for the transaction a unit of work puts in the context.
func dryRunTx(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{SkipDefaultTransaction: true})
}

func TestMenuRepository_LockForOrderSharesRowsInsideTx(t *testing.T) {
	db := dryRunDB(t)
	stmts := recordStatements(t, db)
	repo := NewMenuRepository(db)

	ctx := persistence.ContextWithTx(context.Background(), dryRunTx(db))
	_, err := repo.LockForOrder(ctx, []int64{3, 1})
	require.NoError(t, err)

	require.Len(t, *stmts, 1)
	sql := (*stmts)[0].SQL
	assert.Contains(t, sql, "FROM `menu_items`")
	assert.Contains(t, sql, "id IN (?,?)")
	assert.True(t, strings.HasSuffix(sql, "FOR SHARE"), sql)
	assert.Equal(t, []any{int64(3), int64(1)}, (*stmts)[0].Vars)
}

func TestMenuRepository_LockForOrderWithoutTxTakesNoLock(t *testing.T) {
	db := dryRunDB(t)
	stmts := recordStatements(t, db)
	repo := NewMenuRepository(db)

	_, err := repo.LockForOrder(context.Background(), []int64{3})
	require.NoError(t, err)
	_, err = repo.FindByIDs(persistence.ContextWithTx(context.Background(), dryRunTx(db)), []int64{3})
	require.NoError(t, err)

	require.Len(t, *stmts, 2)
	for _, stmt := range *stmts {
		assert.NotContains(t, stmt.SQL, "FOR SHARE")
		assert.NotContains(t, stmt.SQL, "LOCK IN SHARE MODE")
	}
}

func TestMenuRepository_LockForOrderSkipsEmptyLookup(t *testing.T) {
	db := dryRunDB(t)
	stmts := recordStatements(t, db)

	found, err := NewMenuRepository(db).LockForOrder(
		persistence.ContextWithTx(context.Background(), dryRunTx(db)), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Empty(t, *stmts)
}

func TestOrderRepository_InsertWritesHeaderThenItems(t *testing.T) {
	db := dryRunDB(t)
	stmts := recordStatements(t, db)
	repo := NewOrderRepository(db)

	o, err := order.NewOrder(7, order.TypeTakeaway, []order.Line{
		{MenuItemID: 1, Quantity: 2, UnitPrice: shared.MustMoney("5.00")},
		{MenuItemID: 2, Quantity: 1, UnitPrice: shared.MustMoney("3.50")},
	})
	require.NoError(t, err)

	ctx := persistence.ContextWithTx(context.Background(), dryRunTx(db))
	require.NoError(t, repo.Save(ctx, o))

	require.Len(t, *stmts, 2)
	header, items := (*stmts)[0], (*stmts)[1]
	assert.True(t, strings.HasPrefix(header.SQL, "INSERT INTO `orders`"), header.SQL)
	assert.Contains(t, header.Vars, "Takeaway")
	assert.True(t, strings.HasPrefix(items.SQL, "INSERT INTO `order_items`"), items.SQL)
	assert.Equal(t, 2, strings.Count(items.SQL, "(?,?,?,?)"), "one batch for all lines")
	assert.Equal(t, int64(42), items.Vars[0], "items carry the header id")
	assert.Equal(t, int64(42), items.Vars[4])

	assert.Equal(t, int64(42), o.ID())
	require.Len(t, o.Items(), 2)
	assert.Equal(t, int64(100), o.Items()[0].ID())
	assert.Equal(t, int64(101), o.Items()[1].ID())
	assert.False(t, o.IsNew())

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.Equal(t, "42", events[0].GetAggregateID())
}

func TestOrderItemInsertErr(t *testing.T) {
	err := orderItemInsertErr(gorm.ErrForeignKeyViolated)
	assert.ErrorIs(t, err, order.ErrItemUnavailable)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.NotErrorIs(t, err, order.ErrInvalidOrder)

	err = orderItemInsertErr(errors.New("connection reset"))
	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.NotErrorIs(t, err, order.ErrItemUnavailable)
}
