package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"chiludos-backend/broker"
	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	TableID      uuid.UUID `json:"tableId"`
	CustomerName string    `json:"customerName"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PartySize    int       `json:"partySize"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Comments     string    `json:"comments"`
}

type ReservationFilter struct {
	Status  *models.ReservationStatus
	Date    *string
	TableID *uuid.UUID
}

// ReservationView is a reservation with its table and account details.
type ReservationView struct {
	ID            uuid.UUID                `json:"id"`
	UserID        uuid.UUID                `json:"userId"`
	AccountName   string                   `json:"accountName"`
	TableID       uuid.UUID                `json:"tableId"`
	TableNumber   int                      `json:"tableNumber"`
	TableCapacity int                      `json:"tableCapacity"`
	TableLocation models.Location          `json:"tableLocation"`
	CustomerName  string                   `json:"customerName"`
	Phone         string                   `json:"phone"`
	Email         string                   `json:"email,omitempty"`
	PartySize     int                      `json:"partySize"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Comments      string                   `json:"comments,omitempty"`
	Status        models.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

type ReservationService struct {
	db     *gorm.DB
	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

func NewReservationService(db *gorm.DB, events EventPublisher, log *slog.Logger) *ReservationService {
	return &ReservationService{db: db, events: events, log: log, now: time.Now}
}

// Create books a table slot. Existence, slot conflict and capacity are
// checked inside the same transaction that writes the booking.
func (s *ReservationService) Create(ctx context.Context, userID uuid.UUID, in CreateReservationInput) (*ReservationView, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = normalizeEmail(in.Email)

	if in.TableID == uuid.Nil || in.CustomerName == "" || in.Phone == "" || in.Date == "" || in.Time == "" {
		return nil, utils.ValidationError("Table, customer name, phone, date and time are required")
	}
	if in.PartySize <= 0 {
		return nil, utils.ValidationError("Party size must be greater than 0")
	}
	if !utils.ValidatePhone(in.Phone) {
		return nil, utils.ValidationError("Invalid phone number")
	}
	if in.Email != "" && !utils.ValidateEmail(in.Email) {
		return nil, utils.ValidationError("Invalid email format")
	}
	if _, ok := utils.ParseDate(in.Date); !ok {
		return nil, utils.ValidationError("Date must use the YYYY-MM-DD format")
	}
	clock, ok := utils.ParseClock(in.Time)
	if !ok {
		return nil, utils.ValidationError("Time must use the HH:MM format")
	}

	reservation := models.Reservation{
		UserID:       userID,
		TableID:      in.TableID,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Email:        in.Email,
		PartySize:    in.PartySize,
		Date:         in.Date,
		Time:         clock,
		Comments:     in.Comments,
		Status:       models.ReservationConfirmed,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.First(&table, "id = ? AND is_active = ?", in.TableID, true).Error
		if err != nil {
			return loadErr(err, "Table")
		}

		if err := ensureSlotFree(tx, in.TableID, in.Date, clock, uuid.Nil); err != nil {
			return err
		}

		if in.PartySize > table.Capacity {
			return utils.ValidationError("Table capacity is %d guests", table.Capacity)
		}

		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		return setTableStatus(tx, table.ID, models.TableReserved)
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to create reservation")
	}

	s.log.Info("reservation created", "reservation_id", reservation.ID, "table_id", reservation.TableID)
	publish(ctx, s.log, s.events, broker.ReservationCreated, reservationPayload(&reservation))

	return s.Get(ctx, reservation.ID)
}

// List returns reservations by date and time. Without a date filter only
// today and later are included.
func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]ReservationView, error) {
	q := s.preloaded(ctx)
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, utils.ValidationError("Invalid reservation status")
		}
		q = q.Where("status = ?", *f.Status)
	}
	if f.Date != nil {
		if _, ok := utils.ParseDate(*f.Date); !ok {
			return nil, utils.ValidationError("Date must use the YYYY-MM-DD format")
		}
		q = q.Where("reservation_date = ?", *f.Date)
	} else {
		q = q.Where("reservation_date >= ?", utils.Today(s.now()))
	}
	if f.TableID != nil {
		q = q.Where("table_id = ?", *f.TableID)
	}
	return s.find(q.Order("reservation_date ASC, reservation_time ASC"))
}

// ListForUser returns the caller's own reservations, most recent first.
func (s *ReservationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]ReservationView, error) {
	return s.find(s.preloaded(ctx).Where("user_id = ?", userID).Order("reservation_date DESC, reservation_time DESC"))
}

func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	var reservation models.Reservation
	if err := s.preloaded(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Reservation")
	}
	view := newReservationView(&reservation)
	return &view, nil
}

// Cancel is only allowed for the account that made the reservation.
func (s *ReservationService) Cancel(ctx context.Context, id, callerID uuid.UUID) (*ReservationView, error) {
	r, err := s.transition(ctx, id, func(r *models.Reservation) (models.ReservationStatus, error) {
		if r.UserID != callerID {
			return "", utils.ForbiddenError("You can only cancel your own reservations")
		}
		if r.Status == models.ReservationCancelled {
			return "", utils.ValidationError("Reservation is already cancelled")
		}
		return models.ReservationCancelled, nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.log, s.events, broker.ReservationCancelled, reservationPayload(r))
	return s.Get(ctx, id)
}

// Complete closes the reservation from any state and frees its table.
func (s *ReservationService) Complete(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	r, err := s.transition(ctx, id, func(*models.Reservation) (models.ReservationStatus, error) {
		return models.ReservationCompleted, nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.log, s.events, broker.ReservationCompleted, reservationPayload(r))
	return s.Get(ctx, id)
}

func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) (*ReservationView, error) {
	if !status.Valid() {
		return nil, utils.ValidationError("Invalid reservation status")
	}

	var previous models.ReservationStatus
	r, err := s.transition(ctx, id, func(r *models.Reservation) (models.ReservationStatus, error) {
		previous = r.Status
		return status, nil
	})
	if err != nil {
		return nil, err
	}

	payload := reservationPayload(r)
	payload["oldStatus"] = previous
	publish(ctx, s.log, s.events, broker.ReservationStatusChanged, payload)
	return s.Get(ctx, id)
}

// transition loads the reservation, lets decide pick the next state and
// writes it. Entering a terminal state frees the table in the same
// transaction; reopening a terminal reservation must win its slot back and
// reserves the table again.
func (s *ReservationService) transition(ctx context.Context, id uuid.UUID, decide func(*models.Reservation) (models.ReservationStatus, error)) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, "id = ?", id).Error; err != nil {
			return loadErr(err, "Reservation")
		}

		next, err := decide(&reservation)
		if err != nil {
			return err
		}

		reopened := next.Holding() && !reservation.Status.Holding()
		if reopened {
			if err := ensureSlotFree(tx, reservation.TableID, reservation.Date, reservation.Time, reservation.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(&reservation).Update("status", next).Error; err != nil {
			return err
		}
		reservation.Status = next

		switch {
		case next.Terminal():
			return setTableStatus(tx, reservation.TableID, models.TableAvailable)
		case reopened:
			return setTableStatus(tx, reservation.TableID, models.TableReserved)
		}
		return nil
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to update reservation")
	}

	s.log.Info("reservation status changed", "reservation_id", id, "status", reservation.Status)
	return &reservation, nil
}

// ensureSlotFree rejects a booking when another reservation already holds
// the table at that date and time. exclude is the reservation being
// reopened, or uuid.Nil.
func ensureSlotFree(tx *gorm.DB, tableID uuid.UUID, date, clock string, exclude uuid.UUID) error {
	q := tx.Model(&models.Reservation{}).
		Where("table_id = ? AND reservation_date = ? AND reservation_time = ?", tableID, date, clock).
		Where("status IN ?", models.HoldingReservationStatuses)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}

	var taken int64
	if err := q.Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return utils.ConflictError("Table is already reserved for %s at %s", date, clock)
	}
	return nil
}

func (s *ReservationService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("User").Preload("Table")
}

func (s *ReservationService) find(q *gorm.DB) ([]ReservationView, error) {
	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve reservations")
	}
	views := make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		views = append(views, newReservationView(&reservations[i]))
	}
	return views, nil
}

func newReservationView(r *models.Reservation) ReservationView {
	return ReservationView{
		ID:            r.ID,
		UserID:        r.UserID,
		AccountName:   r.User.FullName,
		TableID:       r.TableID,
		TableNumber:   r.Table.Number,
		TableCapacity: r.Table.Capacity,
		TableLocation: r.Table.Location,
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Email:         r.Email,
		PartySize:     r.PartySize,
		Date:          r.Date,
		Time:          r.Time,
		Comments:      r.Comments,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func reservationPayload(r *models.Reservation) map[string]any {
	return map[string]any{
		"reservationId": r.ID,
		"tableId":       r.TableID,
		"date":          r.Date,
		"time":          r.Time,
		"partySize":     r.PartySize,
		"status":        r.Status,
	}
}
