package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Position string

const (
	PositionAdmin     Position = "admin"
	PositionManager   Position = "manager"
	PositionServer    Position = "server"
	PositionCook      Position = "cook"
	PositionCashier   Position = "cashier"
	PositionHost      Position = "host"
	PositionBartender Position = "bartender"
)

func (p Position) Valid() bool {
	switch p {
	case PositionAdmin, PositionManager, PositionServer, PositionCook,
		PositionCashier, PositionHost, PositionBartender:
		return true
	}
	return false
}

// RoleForPosition is the only place an employee's account role is derived.
func RoleForPosition(p Position) Role {
	switch p {
	case PositionAdmin, PositionManager:
		return RoleAdmin
	default:
		return RoleServer
	}
}

type Employee struct {
	ID       uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:varchar(36);index;not null" json:"userId"`
	User     User       `gorm:"foreignKey:UserID" json:"user"`
	Code     string     `gorm:"size:20;index;not null" json:"code"` // EMP-001
	Position Position   `gorm:"type:varchar(20);not null" json:"position"`
	Salary   *float64   `gorm:"type:decimal(10,2)" json:"salary,omitempty"`
	HireDate *time.Time `json:"hireDate,omitempty"`
	IsActive bool       `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
