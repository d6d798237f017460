package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusfood/application/reporting"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "h:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

type fixture struct {
	store  *memory.Store
	menus  *memory.MenuRepository
	orders *memory.OrderRepository
	svc    *ApplicationService
	owner  *user.User
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:  store,
		menus:  memory.NewMenuRepository(store),
		orders: memory.NewOrderRepository(store),
	}
	users := memory.NewUserRepository(store)
	f.svc = NewApplicationService(Dependencies{
		UnitOfWork:      memory.NewUnitOfWorkFactory(store, nil),
		Orders:          f.orders,
		Menus:           f.menus,
		Users:           users,
		Reports:         reporting.NewService(memory.NewReportingStore(store), f.menus),
		StrictLifecycle: strict,
	})

	u, err := user.Register(user.Registration{
		Name: "Owner", Email: "owner@campus.edu", Password: "secret1", RoomNumber: "B-2",
	}, plainHasher{})
	require.NoError(t, err)
	require.NoError(t, users.Save(context.Background(), u))
	f.owner = u
	return f
}

func (f *fixture) createItem(t *testing.T, name, price string) int64 {
	t.Helper()
	p := shared.MustMoney(price)
	resp, err := f.svc.CreateMenuItem(context.Background(), CreateMenuItemRequest{
		Name: name, Price: &p, Category: "Meals",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) placeOrder(t *testing.T, itemID int64, price string, qty int) int64 {
	t.Helper()
	o, err := order.NewOrder(f.owner.ID(), order.TypeTakeaway, []order.Line{
		{MenuItemID: itemID, Quantity: qty, UnitPrice: shared.MustMoney(price)},
	})
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(context.Background(), o))
	return o.ID()
}

func (f *fixture) status(t *testing.T, id int64) order.Status {
	t.Helper()
	o, err := f.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	return o.Status()
}

func TestUpdateOrderStatus_Permissive(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	item := f.createItem(t, "Noodles", "6.00")
	id := f.placeOrder(t, item, "6.00", 1)

	resp, err := f.svc.UpdateOrderStatus(ctx, 1, id, UpdateStatusRequest{Status: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCompleted), resp.Status)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "owner@campus.edu", resp.Customer.Email)

	// Any known status is reachable, even out of a terminal one.
	_, err = f.svc.UpdateOrderStatus(ctx, 1, id, UpdateStatusRequest{Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, f.status(t, id))

	_, err = f.svc.UpdateOrderStatus(ctx, 1, id, UpdateStatusRequest{Status: "Pending"})
	assert.NoError(t, err)
}

func TestUpdateOrderStatus_UnknownStatusLeavesOrderUntouched(t *testing.T) {
	f := newFixture(t, false)
	item := f.createItem(t, "Noodles", "6.00")
	id := f.placeOrder(t, item, "6.00", 1)

	for _, raw := range []string{"", "Shipped", "pending", "READY"} {
		_, err := f.svc.UpdateOrderStatus(context.Background(), 1, id, UpdateStatusRequest{Status: raw})
		assert.ErrorIs(t, err, order.ErrInvalidStatus, raw)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, raw)
	}
	assert.Equal(t, order.StatusPending, f.status(t, id))
}

func TestUpdateOrderStatus_StrictLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		path    []order.Status
		target  order.Status
		allowed bool
	}{
		{"pending to preparing", nil, order.StatusPreparing, true},
		{"pending to cancelled", nil, order.StatusCancelled, true},
		{"pending to ready", nil, order.StatusReady, false},
		{"preparing to ready", []order.Status{order.StatusPreparing}, order.StatusReady, true},
		{"ready to completed", []order.Status{order.StatusPreparing, order.StatusReady}, order.StatusCompleted, true},
		{"ready to cancelled", []order.Status{order.StatusPreparing, order.StatusReady}, order.StatusCancelled, false},
		{"completed to pending", []order.Status{order.StatusPreparing, order.StatusReady, order.StatusCompleted}, order.StatusPending, false},
		{"cancelled to preparing", []order.Status{order.StatusCancelled}, order.StatusPreparing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			ctx := context.Background()
			item := f.createItem(t, "Rice", "4.00")
			id := f.placeOrder(t, item, "4.00", 1)
			for _, step := range tt.path {
				_, err := f.svc.UpdateOrderStatus(ctx, 1, id, UpdateStatusRequest{Status: string(step)})
				require.NoError(t, err)
			}
			before := f.status(t, id)

			_, err := f.svc.UpdateOrderStatus(ctx, 1, id, UpdateStatusRequest{Status: string(tt.target)})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.target, f.status(t, id))
				return
			}
			assert.ErrorIs(t, err, order.ErrInvalidTransition)
			assert.Equal(t, before, f.status(t, id))
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	item := f.createItem(t, "Wrap", "3.00")
	id := f.placeOrder(t, item, "3.00", 2)

	require.NoError(t, f.svc.DeleteOrder(ctx, 1, id))
	orders, items := f.store.CountRows(ctx)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	err := f.svc.DeleteOrder(ctx, 1, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	item := f.createItem(t, "Wrap", "3.00")
	first := f.placeOrder(t, item, "3.00", 1)
	f.placeOrder(t, item, "3.00", 2)
	_, err := f.svc.UpdateOrderStatus(ctx, 1, first, UpdateStatusRequest{Status: "Ready"})
	require.NoError(t, err)

	all, err := f.svc.ListOrders(ctx, OrdersQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, o := range all {
		require.NotNil(t, o.Customer)
		assert.Equal(t, "Owner", o.Customer.Name)
		assert.Equal(t, "Wrap", o.Items[0].Name)
	}

	ready, err := f.svc.ListOrders(ctx, OrdersQuery{Status: "Ready"})
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, first, ready[0].ID)

	today, err := f.svc.ListOrders(ctx, OrdersQuery{Date: time.Now().UTC().Format(time.DateOnly)})
	require.NoError(t, err)
	assert.Len(t, today, 2)

	past, err := f.svc.ListOrders(ctx, OrdersQuery{Date: "2001-01-01"})
	require.NoError(t, err)
	assert.Empty(t, past)

	_, err = f.svc.ListOrders(ctx, OrdersQuery{Date: "01/02/2024"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.ListOrders(ctx, OrdersQuery{Status: "Lost"})
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestMenuManagement(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	t.Run("create requires name, price and category", func(t *testing.T) {
		_, err := f.svc.CreateMenuItem(ctx, CreateMenuItemRequest{Name: "Tea", Category: "Drinks"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("prices finer than a cent are rejected", func(t *testing.T) {
		for _, raw := range []string{"0.004", "1.005"} {
			p := shared.MustMoney(raw)
			_, err := f.svc.CreateMenuItem(ctx, CreateMenuItemRequest{Name: "Gum", Price: &p, Category: "Snacks"})
			assert.ErrorIs(t, err, shared.ErrInvalidInput, raw)
		}
		items, err := f.svc.ListMenu(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	id := f.createItem(t, "Curry", "8.50")

	t.Run("update to a sub-cent price is rejected", func(t *testing.T) {
		price := shared.MustMoney("1.005")
		_, err := f.svc.UpdateMenuItem(ctx, id, UpdateMenuItemRequest{Price: &price})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		stored, err := f.menus.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "8.50", stored.Price().String())
	})

	t.Run("update applies only present fields", func(t *testing.T) {
		available := false
		price := shared.MustMoney("9.00")
		resp, err := f.svc.UpdateMenuItem(ctx, id, UpdateMenuItemRequest{Price: &price, Available: &available})
		require.NoError(t, err)
		assert.Equal(t, "Curry", resp.Name)
		assert.Equal(t, "9.00", resp.Price.String())
		assert.False(t, resp.Available)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		_, err := f.svc.UpdateMenuItem(ctx, id, UpdateMenuItemRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("update of unknown item", func(t *testing.T) {
		name := "Ghost"
		_, err := f.svc.UpdateMenuItem(ctx, 999, UpdateMenuItemRequest{Name: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin listing includes unavailable items", func(t *testing.T) {
		items, err := f.svc.ListMenu(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.False(t, items[0].Available)
	})

	t.Run("referenced item cannot be deleted", func(t *testing.T) {
		f.placeOrder(t, id, "8.50", 1)
		err := f.svc.DeleteMenuItem(ctx, id)
		assert.ErrorIs(t, err, shared.ErrConflict)
		_, err = f.menus.FindByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("unreferenced item is deleted", func(t *testing.T) {
		other := f.createItem(t, "Salad", "5.00")
		require.NoError(t, f.svc.DeleteMenuItem(ctx, other))
		_, err := f.menus.FindByID(ctx, other)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestStatistics(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	burger := f.createItem(t, "Burger", "5.00")
	juice := f.createItem(t, "Juice", "3.50")
	done := f.placeOrder(t, burger, "5.00", 2)
	f.placeOrder(t, juice, "3.50", 1)
	_, err := f.svc.UpdateOrderStatus(ctx, 1, done, UpdateStatusRequest{Status: "Completed"})
	require.NoError(t, err)

	dash, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dash.TotalOrders)
	assert.Equal(t, int64(1), dash.CompletedOrders)
	assert.Equal(t, int64(1), dash.PendingOrders)
	assert.Equal(t, "13.50", dash.TotalRevenue.String())
	assert.Equal(t, "10.00", dash.CompletedRevenue.String())
	assert.Equal(t, int64(1), dash.TotalUsers)
	assert.Equal(t, int64(2), dash.AvailableMenuItems)

	revenue, err := f.svc.Revenue(ctx, RevenueQuery{})
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, int64(2), revenue[0].OrderCount)
	assert.Equal(t, "13.50", revenue[0].Revenue.String())

	_, err = f.svc.Revenue(ctx, RevenueQuery{StartDate: "yesterday"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	top, err := f.svc.TopItems(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, burger, top[0].MenuItemID)
	assert.Equal(t, int64(2), top[0].TotalQuantity)
	assert.Equal(t, "10.00", top[0].Revenue.String())
}
