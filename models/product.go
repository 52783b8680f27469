package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryEntree  Category = "entree"
	CategoryMain    Category = "main"
	CategoryDessert Category = "dessert"
	CategoryDrink   Category = "drink"
	CategoryOther   Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEntree, CategoryMain, CategoryDessert, CategoryDrink, CategoryOther:
		return true
	}
	return false
}

type SpiceLevel string

const (
	SpiceNone    SpiceLevel = "none"
	SpiceMild    SpiceLevel = "mild"
	SpiceMedium  SpiceLevel = "medium"
	SpiceHot     SpiceLevel = "hot"
	SpiceExtreme SpiceLevel = "extreme"
)

func (s SpiceLevel) Valid() bool {
	switch s {
	case SpiceNone, SpiceMild, SpiceMedium, SpiceHot, SpiceExtreme:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Category    Category   `gorm:"type:varchar(20);index;not null" json:"category"`
	Price       float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	SpiceLevel  SpiceLevel `gorm:"type:varchar(20);not null" json:"spiceLevel"`
	IsAvailable bool       `json:"isAvailable"`
	ImageURL    string     `gorm:"size:500" json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
