package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeout  OrderType = "takeout"
	OrderDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderDineIn, OrderTakeout, OrderDelivery:
		return true
	}
	return false
}

type Order struct {
	ID       uuid.UUID   `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID   uuid.UUID   `gorm:"type:varchar(36);index;not null" json:"userId"`
	User     User        `gorm:"foreignKey:UserID" json:"-"`
	TableID  *uuid.UUID  `gorm:"type:varchar(36);index" json:"tableId,omitempty"`
	Table    *Table      `gorm:"foreignKey:TableID" json:"-"`
	Total    float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Type     OrderType   `gorm:"type:varchar(20);not null" json:"type"`
	Comments string      `gorm:"type:text" json:"comments,omitempty"`
	Status   OrderStatus `gorm:"type:varchar(20);index;not null" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem is written once together with its order and never updated.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:varchar(36);index;not null" json:"orderId"`
	ProductID   uuid.UUID `gorm:"type:varchar(36);index;not null" json:"productId"`
	Product     Product   `gorm:"foreignKey:ProductID" json:"-"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Subtotal    float64   `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Preferences string    `gorm:"type:text" json:"preferences,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
