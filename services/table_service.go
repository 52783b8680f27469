package services

import (
	"context"
	"log/slog"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableFilter struct {
	Status   *models.TableStatus
	Location *models.Location
	Active   *bool
}

type TableInput struct {
	Number   int                `json:"number"`
	Capacity int                `json:"capacity"`
	Location models.Location    `json:"location"`
	Status   models.TableStatus `json:"status"`
	IsActive *bool              `json:"isActive"`
}

type TableUpdate struct {
	Number   *int                `json:"number"`
	Capacity *int                `json:"capacity"`
	Location *models.Location    `json:"location"`
	Status   *models.TableStatus `json:"status"`
	IsActive *bool               `json:"isActive"`
}

type TableDeleteResult struct {
	RemovedReservations int64 `json:"removedReservations"`
	RemovedOrders       int64 `json:"removedOrders"`
}

type TableService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTableService(db *gorm.DB, log *slog.Logger) *TableService {
	return &TableService{db: db, log: log}
}

func (s *TableService) List(ctx context.Context, f TableFilter) ([]models.Table, error) {
	q := s.db.WithContext(ctx).Model(&models.Table{})
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, utils.ValidationError("Invalid table status")
		}
		q = q.Where("status = ?", *f.Status)
	}
	if f.Location != nil {
		if !f.Location.Valid() {
			return nil, utils.ValidationError("Invalid location")
		}
		q = q.Where("location = ?", *f.Location)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	tables := []models.Table{}
	if err := q.Order("number").Find(&tables).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve tables")
	}
	return tables, nil
}

// ListAvailable returns active tables currently free that seat at least
// minCapacity guests. Smallest fitting tables come first.
func (s *TableService) ListAvailable(ctx context.Context, minCapacity int) ([]models.Table, error) {
	if minCapacity < 0 {
		return nil, utils.ValidationError("Minimum capacity cannot be negative")
	}

	tables := []models.Table{}
	err := s.db.WithContext(ctx).
		Where("status = ? AND is_active = ? AND capacity >= ?", models.TableAvailable, true, minCapacity).
		Order("capacity, number").
		Find(&tables).Error
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve available tables")
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Table")
	}
	return &table, nil
}

func (s *TableService) GetByNumber(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, "number = ?", number).Error; err != nil {
		return nil, loadErr(err, "Table")
	}
	return &table, nil
}

func (s *TableService) Create(ctx context.Context, in TableInput) (*models.Table, error) {
	if in.Number == 0 || in.Capacity == 0 || in.Location == "" {
		return nil, utils.ValidationError("Number, capacity and location are required")
	}
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	if err := validateTable(in.Number, in.Capacity, in.Location, in.Status); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureNumberFree(db, in.Number, uuid.Nil); err != nil {
		return nil, err
	}

	table := models.Table{
		Number:   in.Number,
		Capacity: in.Capacity,
		Location: in.Location,
		Status:   in.Status,
		IsActive: true,
	}
	if in.IsActive != nil {
		table.IsActive = *in.IsActive
	}
	if err := db.Create(&table).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to create table")
	}
	return &table, nil
}

func (s *TableService) Update(ctx context.Context, id uuid.UUID, in TableUpdate) (*models.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	number, capacity, location, status := table.Number, table.Capacity, table.Location, table.Status
	updates := map[string]interface{}{}
	if in.Number != nil {
		number = *in.Number
		updates["number"] = number
	}
	if in.Capacity != nil {
		capacity = *in.Capacity
		updates["capacity"] = capacity
	}
	if in.Location != nil {
		location = *in.Location
		updates["location"] = location
	}
	if in.Status != nil {
		status = *in.Status
		updates["status"] = status
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if err := validateTable(number, capacity, location, status); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return table, nil
	}

	db := s.db.WithContext(ctx)
	if in.Number != nil {
		if err := s.ensureNumberFree(db, number, table.ID); err != nil {
			return nil, err
		}
	}
	if err := db.Model(table).Updates(updates).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update table")
	}
	return s.Get(ctx, id)
}

// Delete removes the table with its reservations and orders. Order lines
// go first so nothing is left pointing at a removed order.
func (s *TableService) Delete(ctx context.Context, id uuid.UUID) (*TableDeleteResult, error) {
	result := &TableDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, "id = ?", id).Error; err != nil {
			return loadErr(err, "Table")
		}

		orderIDs := tx.Model(&models.Order{}).Select("id").Where("table_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		orders := tx.Where("table_id = ?", id).Delete(&models.Order{})
		if orders.Error != nil {
			return orders.Error
		}
		result.RemovedOrders = orders.RowsAffected

		reservations := tx.Where("table_id = ?", id).Delete(&models.Reservation{})
		if reservations.Error != nil {
			return reservations.Error
		}
		result.RemovedReservations = reservations.RowsAffected

		return tx.Delete(&table).Error
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to delete table")
	}

	s.log.Info("table deleted",
		"table_id", id,
		"removed_orders", result.RemovedOrders,
		"removed_reservations", result.RemovedReservations,
	)
	return result, nil
}

func (s *TableService) ChangeStatus(ctx context.Context, id uuid.UUID, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, utils.ValidationError("Invalid table status")
	}
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(table).Update("status", status).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update table status")
	}
	table.Status = status
	return table, nil
}

func (s *TableService) ensureNumberFree(db *gorm.DB, number int, exclude uuid.UUID) error {
	q := db.Model(&models.Table{}).Where("number = ?", number)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return utils.PersistenceError(err, "Failed to check table number")
	}
	if count > 0 {
		return utils.ConflictError("Table number %d already exists", number)
	}
	return nil
}

func validateTable(number, capacity int, location models.Location, status models.TableStatus) error {
	if number <= 0 {
		return utils.ValidationError("Table number must be greater than 0")
	}
	if capacity <= 0 {
		return utils.ValidationError("Capacity must be greater than 0")
	}
	if !location.Valid() {
		return utils.ValidationError("Invalid location")
	}
	if !status.Valid() {
		return utils.ValidationError("Invalid table status")
	}
	return nil
}

// setTableStatus is the single write path for occupancy changes made by
// order and reservation transactions.
func setTableStatus(tx *gorm.DB, tableID uuid.UUID, status models.TableStatus) error {
	return tx.Model(&models.Table{}).Where("id = ?", tableID).Update("status", status).Error
}
