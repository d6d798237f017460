// Package po holds the GORM row types. They carry no behaviour and no associations.
package po

import (
	"time"

	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"

	"github.com/shopspring/decimal"
)

type UserPO struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	RoomNumber   string    `gorm:"size:50;not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserPO) TableName() string { return "users" }

func FromUserDomain(u *user.User) *UserPO {
	return &UserPO{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		RoomNumber:   u.RoomNumber(),
		IsAdmin:      u.IsAdmin(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (p *UserPO) ToDomain() *user.User {
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		RoomNumber:   p.RoomNumber,
		IsAdmin:      p.IsAdmin,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	})
}

type MenuItemPO struct {
	ID            int64            `gorm:"primaryKey;autoIncrement"`
	Name          string           `gorm:"size:255;not null"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Category      string           `gorm:"size:100;not null;index"`
	ImageURL      string           `gorm:"size:500"`
	Available     bool             `gorm:"not null;default:true;index"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time        `gorm:"not null"`
}

func (MenuItemPO) TableName() string { return "menu_items" }

func FromMenuDomain(i *menu.Item) *MenuItemPO {
	p := &MenuItemPO{
		ID:          i.ID(),
		Name:        i.Name(),
		Description: i.Description(),
		Price:       i.Price().Decimal(),
		Category:    i.Category(),
		ImageURL:    i.ImageURL(),
		Available:   i.IsAvailable(),
		CreatedAt:   i.CreatedAt(),
		UpdatedAt:   i.UpdatedAt(),
	}
	if op := i.OriginalPrice(); op != nil {
		d := op.Decimal()
		p.OriginalPrice = &d
	}
	return p
}

func (p *MenuItemPO) ToDomain() *menu.Item {
	dto := menu.ReconstructionDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       shared.NewMoney(p.Price),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OriginalPrice != nil {
		m := shared.NewMoney(*p.OriginalPrice)
		dto.OriginalPrice = &m
	}
	return menu.RebuildFromDTO(dto)
}

type OrderPO struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	UserID      int64           `gorm:"not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      string          `gorm:"size:20;not null;default:Pending;index"`
	OrderType   string          `gorm:"size:20;not null;default:Inhouse"`
	CreatedAt   time.Time       `gorm:"not null;index"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (OrderPO) TableName() string { return "orders" }

type OrderItemPO struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	OrderID    int64           `gorm:"not null;index"`
	MenuItemID int64           `gorm:"not null;index"`
	Quantity   int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (OrderItemPO) TableName() string { return "order_items" }

func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	header := &OrderPO{
		ID:          o.ID(),
		UserID:      o.UserID(),
		TotalAmount: o.TotalAmount().Decimal(),
		Status:      string(o.Status()),
		OrderType:   string(o.Type()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
	items := o.Items()
	rows := make([]OrderItemPO, len(items))
	for i, item := range items {
		rows[i] = OrderItemPO{
			ID:         item.ID(),
			OrderID:    o.ID(),
			MenuItemID: item.MenuItemID(),
			Quantity:   item.Quantity(),
			Price:      item.UnitPrice().Decimal(),
		}
	}
	return header, rows
}

func (p *OrderPO) ToDomain(itemRows []OrderItemPO) *order.Order {
	items := make([]order.Item, len(itemRows))
	for i, row := range itemRows {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:         row.ID,
			MenuItemID: row.MenuItemID,
			Quantity:   row.Quantity,
			UnitPrice:  shared.NewMoney(row.Price),
		})
	}
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		Items:       items,
		TotalAmount: shared.NewMoney(p.TotalAmount),
		Status:      order.Status(p.Status),
		Type:        order.Type(p.OrderType),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}
