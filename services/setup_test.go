package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"chiludos-backend/broker"
	"chiludos-backend/config"
	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// newTestDB opens a private in-memory database with foreign keys enforced.
// A single connection keeps the schema and the pragma alive for the whole
// test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.GormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{
		FullName:     "User " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTable(t *testing.T, db *gorm.DB, number, capacity int) *models.Table {
	t.Helper()
	table := &models.Table{
		Number:   number,
		Capacity: capacity,
		Location: models.LocationIndoor,
		Status:   models.TableAvailable,
		IsActive: true,
	}
	if err := db.Create(table).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return table
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Category:    models.CategoryMain,
		Price:       price,
		SpiceLevel:  models.SpiceNone,
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func tableStatus(t *testing.T, db *gorm.DB, id any) models.TableStatus {
	t.Helper()
	var table models.Table
	if err := db.First(&table, "id = ?", id).Error; err != nil {
		t.Fatalf("load table: %v", err)
	}
	return table.Status
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func assertKind(t *testing.T, err error, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
