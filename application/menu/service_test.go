package menu

import (
	"context"
	"testing"

	"campusfood/application/reporting"
	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *memory.MenuRepository, name, category, price string, available bool) *menu.Item {
	t.Helper()
	item, err := menu.NewItem(menu.Draft{
		Name:      name,
		Category:  category,
		Price:     shared.MustMoney(price),
		Available: &available,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), item))
	return item
}

func TestCatalogReads(t *testing.T) {
	store := memory.NewStore()
	menus := memory.NewMenuRepository(store)
	orders := memory.NewOrderRepository(store)
	svc := NewApplicationService(menus, reporting.NewService(memory.NewReportingStore(store), menus))
	ctx := context.Background()

	pho := seed(t, menus, "Pho", "Noodles", "7.00", true)
	ramen := seed(t, menus, "Ramen", "Noodles", "8.00", true)
	seed(t, menus, "Udon", "Noodles", "6.50", false)
	seed(t, menus, "Latte", "Drinks", "3.00", true)

	t.Run("public list hides unavailable items", func(t *testing.T) {
		items, err := svc.List(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("available=false shows only unavailable items", func(t *testing.T) {
		off := false
		items, err := svc.List(ctx, ListQuery{Available: &off})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Udon", items[0].Name)
	})

	t.Run("search and category", func(t *testing.T) {
		items, err := svc.List(ctx, ListQuery{Category: "Noodles", Search: "ram"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, ramen.ID(), items[0].ID)
	})

	t.Run("by category", func(t *testing.T) {
		items, err := svc.ByCategory(ctx, "Noodles")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("categories", func(t *testing.T) {
		categories, err := svc.Categories(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Noodles", "Drinks"}, categories)
	})

	t.Run("get unknown item", func(t *testing.T) {
		_, err := svc.Get(ctx, 777)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("popular ranks by order count", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			o, err := order.NewOrder(1, order.TypeInhouse, []order.Line{
				{MenuItemID: pho.ID(), Quantity: 1, UnitPrice: pho.Price()},
			})
			require.NoError(t, err)
			require.NoError(t, orders.Save(ctx, o))
		}

		popular, err := svc.Popular(ctx)
		require.NoError(t, err)
		require.Len(t, popular, 3)
		assert.Equal(t, pho.ID(), popular[0].ID)
		assert.Equal(t, int64(2), popular[0].OrderCount)
		assert.Zero(t, popular[1].OrderCount)
	})
}
