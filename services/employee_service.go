package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

type CreateEmployeeInput struct {
	FullName string          `json:"fullName"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"` // generated when empty
	Position models.Position `json:"position"`
	Salary   *float64        `json:"salary"`
	HireDate string          `json:"hireDate"` // YYYY-MM-DD, defaults to today
}

type UpdateEmployeeInput struct {
	FullName *string          `json:"fullName"`
	Username *string          `json:"username"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Position *models.Position `json:"position"`
	Salary   *float64         `json:"salary"`
	HireDate *string          `json:"hireDate"`
}

// EmployeeCreated discloses the initial password exactly once.
type EmployeeCreated struct {
	Employee          *models.Employee `json:"employee"`
	TemporaryPassword string           `json:"temporaryPassword"`
}

type EmployeeService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewEmployeeService(db *gorm.DB, log *slog.Logger) *EmployeeService {
	return &EmployeeService{db: db, log: log}
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	if err := s.db.WithContext(ctx).Preload("User").Order("code").Find(&employees).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve employees")
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Preload("User").First(&employee, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Employee")
	}
	return &employee, nil
}

// Create registers the account and the employee record together. The
// account role follows the position.
func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*EmployeeCreated, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Position == "" {
		return nil, utils.ValidationError("Full name, username, email and position are required")
	}
	if !in.Position.Valid() {
		return nil, utils.ValidationError("Invalid position")
	}
	if !utils.ValidateEmail(in.Email) {
		return nil, utils.ValidationError("Invalid email format")
	}
	if len(in.Username) < minUsernameLength {
		return nil, utils.ValidationError("Username must be at least %d characters", minUsernameLength)
	}
	if in.Salary != nil && *in.Salary < 0 {
		return nil, utils.ValidationError("Salary cannot be negative")
	}
	hireDate, err := parseHireDate(in.HireDate)
	if err != nil {
		return nil, err
	}

	password := in.Password
	if password == "" {
		password = utils.GenerateRandomString(temporaryPasswordLength)
	} else if len(password) < minPasswordLength {
		return nil, utils.ValidationError("Password must be at least %d characters", minPasswordLength)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to secure password")
	}

	employee := models.Employee{
		Position: in.Position,
		Salary:   in.Salary,
		HireDate: hireDate,
		IsActive: true,
		User: models.User{
			FullName:     in.FullName,
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         models.RoleForPosition(in.Position),
			IsActive:     true,
		},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, in.Username, in.Email, uuid.Nil); err != nil {
			return err
		}

		code, err := nextEmployeeCode(tx)
		if err != nil {
			return err
		}
		employee.Code = code

		if err := tx.Create(&employee.User).Error; err != nil {
			return err
		}
		employee.UserID = employee.User.ID
		return tx.Omit("User").Create(&employee).Error
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to create employee")
	}

	s.log.Info("employee created", "employee_id", employee.ID, "code", employee.Code, "role", employee.User.Role)
	return &EmployeeCreated{Employee: &employee, TemporaryPassword: password}, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, in UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	userUpdates := map[string]interface{}{}
	employeeUpdates := map[string]interface{}{}
	var username, email string

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, utils.ValidationError("Full name cannot be empty")
		}
		userUpdates["full_name"] = name
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if len(username) < minUsernameLength {
			return nil, utils.ValidationError("Username must be at least %d characters", minUsernameLength)
		}
		userUpdates["username"] = username
	}
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
		if !utils.ValidateEmail(email) {
			return nil, utils.ValidationError("Invalid email format")
		}
		userUpdates["email"] = email
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < minPasswordLength {
			return nil, utils.ValidationError("Password must be at least %d characters", minPasswordLength)
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, utils.PersistenceError(err, "Failed to secure password")
		}
		userUpdates["password_hash"] = hash
	}
	if in.Position != nil {
		if !in.Position.Valid() {
			return nil, utils.ValidationError("Invalid position")
		}
		employeeUpdates["position"] = *in.Position
		userUpdates["role"] = models.RoleForPosition(*in.Position)
	}
	if in.Salary != nil {
		if *in.Salary < 0 {
			return nil, utils.ValidationError("Salary cannot be negative")
		}
		employeeUpdates["salary"] = *in.Salary
	}
	if in.HireDate != nil {
		hireDate, err := parseHireDate(*in.HireDate)
		if err != nil {
			return nil, err
		}
		employeeUpdates["hire_date"] = hireDate
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, username, email, employee.UserID); err != nil {
			return err
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", employee.UserID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(employeeUpdates) > 0 {
			if err := tx.Model(&models.Employee{}).Where("id = ?", employee.ID).Updates(employeeUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to update employee")
	}

	return s.Get(ctx, id)
}

type EmployeeDeleteResult struct {
	RemovedOrders       int64 `json:"removedOrders"`
	RemovedReservations int64 `json:"removedReservations"`
}

// Delete removes the employee record and its account. Orders (with their
// lines) and reservations placed from the account go with it.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) (*EmployeeDeleteResult, error) {
	result := &EmployeeDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, "id = ?", id).Error; err != nil {
			return loadErr(err, "Employee")
		}

		orderIDs := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", employee.UserID)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		orders := tx.Where("user_id = ?", employee.UserID).Delete(&models.Order{})
		if orders.Error != nil {
			return orders.Error
		}
		result.RemovedOrders = orders.RowsAffected

		reservations := tx.Where("user_id = ?", employee.UserID).Delete(&models.Reservation{})
		if reservations.Error != nil {
			return reservations.Error
		}
		result.RemovedReservations = reservations.RowsAffected

		if err := tx.Delete(&employee).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", employee.UserID).Error
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to delete employee")
	}

	s.log.Info("employee deleted",
		"employee_id", id,
		"removed_orders", result.RemovedOrders,
		"removed_reservations", result.RemovedReservations,
	)
	return result, nil
}

// SetActive toggles the employee and its account together, so a disabled
// employee can no longer sign in.
func (s *EmployeeService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Employee, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, "id = ?", id).Error; err != nil {
			return loadErr(err, "Employee")
		}
		if err := tx.Model(&employee).Update("is_active", active).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", employee.UserID).Update("is_active", active).Error
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to update employee status")
	}
	return s.Get(ctx, id)
}

// nextEmployeeCode returns EMP-### one above the highest code in use.
func nextEmployeeCode(tx *gorm.DB) (string, error) {
	var codes []string
	if err := tx.Model(&models.Employee{}).Pluck("code", &codes).Error; err != nil {
		return "", err
	}
	highest := 0
	for _, code := range codes {
		n, err := strconv.Atoi(strings.TrimPrefix(code, "EMP-"))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("EMP-%03d", highest+1), nil
}

func parseHireDate(value string) (*time.Time, error) {
	if value == "" {
		today := utils.BeginningOfDay(time.Now().UTC())
		return &today, nil
	}
	t, ok := utils.ParseDate(value)
	if !ok {
		return nil, utils.ValidationError("Hire date must use the YYYY-MM-DD format")
	}
	return &t, nil
}
