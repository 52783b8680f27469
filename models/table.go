package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location string

const (
	LocationIndoor Location = "indoor"
	LocationPatio  Location = "patio"
	LocationVIP    Location = "vip"
	LocationBar    Location = "bar"
)

func (l Location) Valid() bool {
	switch l {
	case LocationIndoor, LocationPatio, LocationVIP, LocationBar:
		return true
	}
	return false
}

type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableOccupied    TableStatus = "occupied"
	TableReserved    TableStatus = "reserved"
	TableMaintenance TableStatus = "maintenance"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

// Table is a physical seating unit. Its Status only reflects the latest
// occupancy event (order placed, reservation made or released).
type Table struct {
	ID       uuid.UUID   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Number   int         `gorm:"index;not null" json:"number"`
	Capacity int         `gorm:"not null" json:"capacity"`
	Location Location    `gorm:"type:varchar(20);not null" json:"location"`
	Status   TableStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	IsActive bool        `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Table) TableName() string {
	return "dining_tables"
}

func (t *Table) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
