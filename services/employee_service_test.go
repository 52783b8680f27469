package services

import (
	"context"
	"testing"
	"time"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
)

func TestEmployeeCreateDerivesRoleAndCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	ctx := context.Background()

	waiter, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Luis Perez",
		Username: "lperez",
		Email:    "luis@example.com",
		Position: models.PositionServer,
	})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	if waiter.Employee.Code != "EMP-001" {
		t.Errorf("code = %s, want EMP-001", waiter.Employee.Code)
	}
	if waiter.Employee.User.Role != models.RoleServer {
		t.Errorf("role = %s, want server", waiter.Employee.User.Role)
	}
	if len(waiter.TemporaryPassword) != temporaryPasswordLength {
		t.Errorf("temporary password length = %d", len(waiter.TemporaryPassword))
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", waiter.Employee.UserID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.PasswordHash == waiter.TemporaryPassword || !utils.CheckPasswordHash(waiter.TemporaryPassword, stored.PasswordHash) {
		t.Error("stored hash does not match the disclosed password")
	}

	manager, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Marta Ruiz",
		Username: "mruiz",
		Email:    "marta@example.com",
		Password: "chosen-pass",
		Position: models.PositionManager,
	})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	if manager.Employee.Code != "EMP-002" {
		t.Errorf("code = %s, want EMP-002", manager.Employee.Code)
	}
	if manager.Employee.User.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", manager.Employee.User.Role)
	}
	if manager.TemporaryPassword != "chosen-pass" {
		t.Errorf("temporary password = %q", manager.TemporaryPassword)
	}
}

func TestEmployeeCreateRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	ctx := context.Background()
	createUser(t, db, "taken", models.RoleCustomer)

	_, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Dup", Username: "taken", Email: "new@example.com", Position: models.PositionCook,
	})
	assertKind(t, err, utils.ErrConflict)

	_, err = svc.Create(ctx, CreateEmployeeInput{
		FullName: "Dup", Username: "fresh", Email: "taken@example.com", Position: models.PositionCook,
	})
	assertKind(t, err, utils.ErrConflict)

	if n := count(t, db, &models.Employee{}); n != 0 {
		t.Errorf("employees = %d, want 0", n)
	}
	if n := count(t, db, &models.User{}); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}

	_, err = svc.Create(ctx, CreateEmployeeInput{
		FullName: "X", Username: "someone", Email: "x@example.com", Position: "janitor",
	})
	assertKind(t, err, utils.ErrValidation)
}

func TestEmployeeUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Cook", Username: "cook01", Email: "cook@example.com", Position: models.PositionCook,
	})
	if err != nil {
		t.Fatal(err)
	}

	position := models.PositionAdmin
	password := "brand-new-pass"
	salary := 18000.0
	updated, err := svc.Update(ctx, created.Employee.ID, UpdateEmployeeInput{
		Position: &position,
		Password: &password,
		Salary:   &salary,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != models.PositionAdmin || updated.User.Role != models.RoleAdmin {
		t.Errorf("position/role = %s/%s", updated.Position, updated.User.Role)
	}
	if updated.Salary == nil || *updated.Salary != salary {
		t.Errorf("salary = %v", updated.Salary)
	}
	if !utils.CheckPasswordHash(password, updated.User.PasswordHash) {
		t.Error("password was not rehashed")
	}

	other := createUser(t, db, "someone", models.RoleCustomer)
	_, err = svc.Update(ctx, created.Employee.ID, UpdateEmployeeInput{Email: &other.Email})
	assertKind(t, err, utils.ErrConflict)

	_, err = svc.Update(ctx, uuid.New(), UpdateEmployeeInput{Salary: &salary})
	assertKind(t, err, utils.ErrNotFound)
}

func TestEmployeeDeleteRemovesAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Host", Username: "host01", Email: "host@example.com", Position: models.PositionHost,
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Delete(ctx, created.Employee.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.RemovedOrders != 0 || result.RemovedReservations != 0 {
		t.Errorf("result = %+v, want nothing removed", result)
	}
	if n := count(t, db, &models.Employee{}); n != 0 {
		t.Errorf("employees = %d, want 0", n)
	}
	if n := count(t, db, &models.User{}); n != 0 {
		t.Errorf("users = %d, want 0", n)
	}

	_, err = svc.Delete(ctx, created.Employee.ID)
	assertKind(t, err, utils.ErrNotFound)
}

func TestEmployeeDeleteRemovesAccountActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	orders := NewOrderService(db, NopPublisher{}, discardLogger())
	reservations := NewReservationService(db, NopPublisher{}, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Waiter", Username: "waiter01", Email: "waiter@example.com", Position: models.PositionServer,
	})
	if err != nil {
		t.Fatal(err)
	}
	userID := created.Employee.UserID
	table := createTable(t, db, 4, 4)
	other := createTable(t, db, 5, 4)
	product := createProduct(t, db, "Pozole", 110)

	_, err = orders.Create(ctx, userID, CreateOrderInput{
		TableID: &table.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 110}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reservations.Create(ctx, userID, reservationInput(other.ID, 2, "2030-05-01", "13:00")); err != nil {
		t.Fatal(err)
	}

	// Activity from another account must survive.
	customer := createUser(t, db, "customer", models.RoleCustomer)
	if _, err := orders.Create(ctx, customer.ID, CreateOrderInput{
		Type:  models.OrderTakeout,
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 110}},
	}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Delete(ctx, created.Employee.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.RemovedOrders != 1 || result.RemovedReservations != 1 {
		t.Errorf("result = %+v, want 1 order and 1 reservation", result)
	}
	if n := count(t, db, &models.Order{}); n != 1 {
		t.Errorf("orders = %d, want 1", n)
	}
	if n := count(t, db, &models.OrderItem{}); n != 1 {
		t.Errorf("order items = %d, want 1", n)
	}
	if n := count(t, db, &models.Reservation{}); n != 0 {
		t.Errorf("reservations = %d, want 0", n)
	}
	if n := count(t, db, &models.User{}); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestEmployeeSetActiveBlocksLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, discardLogger())
	auth := NewAuthService(db, utils.NewTokenManager("test-secret", time.Hour), discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEmployeeInput{
		FullName: "Bar", Username: "barman", Email: "bar@example.com", Password: "cocktails", Position: models.PositionBartender,
	})
	if err != nil {
		t.Fatal(err)
	}

	disabled, err := svc.SetActive(ctx, created.Employee.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if disabled.IsActive || disabled.User.IsActive {
		t.Error("employee and account should both be inactive")
	}

	_, err = auth.Login(ctx, LoginInput{Identifier: "barman", Password: "cocktails"})
	assertKind(t, err, utils.ErrForbidden)

	if _, err := svc.SetActive(ctx, created.Employee.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, LoginInput{Identifier: "barman", Password: "cocktails"}); err != nil {
		t.Errorf("login after reactivation: %v", err)
	}
}
