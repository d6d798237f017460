package order

import (
	"bytes"
	"context"
	"encoding/json"

	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/user"
)

func toCartLines(raw json.RawMessage) ([]order.CartLine, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, order.NewEmptyOrderError()
	}
	var items []CartItemRequest
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, order.NewInvalidOrderError("each item must have menu_item_id, quantity, and price")
	}
	lines := make([]order.CartLine, len(items))
	for i, item := range items {
		lines[i] = order.CartLine{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		}
	}
	return lines, nil
}

// Assembler turns orders into responses, joining menu names and customers.
// Menu items deleted since the order keep an empty name.
type Assembler struct {
	menus menu.Repository
	users user.Repository
}

func NewAssembler(menus menu.Repository, users user.Repository) *Assembler {
	return &Assembler{menus: menus, users: users}
}

func (a *Assembler) Assemble(ctx context.Context, orders []*order.Order, withCustomer bool) ([]OrderResponse, error) {
	menuIDs := make([]int64, 0)
	userIDs := make([]int64, 0)
	seenMenu := make(map[int64]struct{})
	seenUser := make(map[int64]struct{})
	for _, o := range orders {
		if _, ok := seenUser[o.UserID()]; !ok {
			seenUser[o.UserID()] = struct{}{}
			userIDs = append(userIDs, o.UserID())
		}
		for _, item := range o.Items() {
			if _, ok := seenMenu[item.MenuItemID()]; !ok {
				seenMenu[item.MenuItemID()] = struct{}{}
				menuIDs = append(menuIDs, item.MenuItemID())
			}
		}
	}

	items, err := a.menus.FindByIDs(ctx, menuIDs)
	if err != nil {
		return nil, err
	}
	var customers map[int64]*user.User
	if withCustomer {
		if customers, err = a.users.FindByIDs(ctx, userIDs); err != nil {
			return nil, err
		}
	}

	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o, items, customers[o.UserID()])
	}
	return out, nil
}

func (a *Assembler) AssembleOne(ctx context.Context, o *order.Order) (*OrderResponse, error) {
	out, err := a.Assemble(ctx, []*order.Order{o}, true)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func toOrderResponse(o *order.Order, menuItems map[int64]*menu.Item, customer *user.User) OrderResponse {
	lines := o.Items()
	items := make([]OrderItemResponse, len(lines))
	for i, line := range lines {
		items[i] = OrderItemResponse{
			ID:         line.ID(),
			MenuItemID: line.MenuItemID(),
			Quantity:   line.Quantity(),
			Price:      line.UnitPrice(),
			Subtotal:   line.Subtotal(),
		}
		if m, ok := menuItems[line.MenuItemID()]; ok {
			items[i].Name = m.Name()
			items[i].Description = m.Description()
			items[i].ImageURL = m.ImageURL()
		}
	}

	resp := OrderResponse{
		ID:          o.ID(),
		UserID:      o.UserID(),
		TotalAmount: o.TotalAmount(),
		Status:      string(o.Status()),
		OrderType:   string(o.Type()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		Items:       items,
	}
	if customer != nil {
		resp.Customer = &CustomerResponse{
			ID:         customer.ID(),
			Name:       customer.Name(),
			Email:      customer.Email().Value(),
			RoomNumber: customer.RoomNumber(),
		}
	}
	return resp
}
