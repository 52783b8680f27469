package seeders

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"chiludos-backend/config"
	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedIsIdempotent(t *testing.T) {
	utils.PasswordCost = bcrypt.MinCost

	cfg := config.GormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	if err := config.Migrate(db); err != nil {
		t.Fatal(err)
	}

	admin := Admin{Username: "admin", Email: "admin@example.com", Password: "change-me-now"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for i := 0; i < 2; i++ {
		if err := Seed(context.Background(), db, admin, log); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	counts := map[string]struct {
		model any
		want  int64
	}{
		"users":     {&models.User{}, 1},
		"employees": {&models.Employee{}, 1},
		"tables":    {&models.Table{}, 6},
		"products":  {&models.Product{}, 5},
	}
	for name, c := range counts {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		if n != c.want {
			t.Errorf("%s = %d, want %d", name, n, c.want)
		}
	}

	var user models.User
	if err := db.First(&user, "username = ?", "admin").Error; err != nil {
		t.Fatal(err)
	}
	if user.Role != models.RoleAdmin || !utils.CheckPasswordHash("change-me-now", user.PasswordHash) {
		t.Errorf("admin account = %+v", user)
	}
}
