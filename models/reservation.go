package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationInProgress ReservationStatus = "in_progress"
	ReservationCompleted  ReservationStatus = "completed"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationInProgress, ReservationCompleted,
		ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Holding reports whether the reservation still blocks its table slot.
func (s ReservationStatus) Holding() bool {
	return s == ReservationConfirmed || s == ReservationInProgress
}

// Terminal states release the table.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled || s == ReservationNoShow
}

// HoldingReservationStatuses is the IN (...) list for slot conflict checks.
var HoldingReservationStatuses = []ReservationStatus{ReservationConfirmed, ReservationInProgress}

type Reservation struct {
	ID           uuid.UUID         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       uuid.UUID         `gorm:"type:varchar(36);index;not null" json:"userId"`
	User         User              `gorm:"foreignKey:UserID" json:"-"`
	TableID      uuid.UUID         `gorm:"type:varchar(36);index;not null" json:"tableId"`
	Table        Table             `gorm:"foreignKey:TableID" json:"-"`
	CustomerName string            `gorm:"size:150;not null" json:"customerName"`
	Phone        string            `gorm:"size:30;not null" json:"phone"`
	Email        string            `gorm:"size:150" json:"email,omitempty"`
	PartySize    int               `gorm:"not null" json:"partySize"`
	Date         string            `gorm:"column:reservation_date;type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	Time         string            `gorm:"column:reservation_time;type:varchar(5);not null" json:"time"`        // HH:MM
	Comments     string            `gorm:"type:text" json:"comments,omitempty"`
	Status       ReservationStatus `gorm:"type:varchar(20);index;not null" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
