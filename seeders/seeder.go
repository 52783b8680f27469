package seeders

import (
	"context"
	"log/slog"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"gorm.io/gorm"
)

type Admin struct {
	Username string
	Email    string
	Password string
}

// Seed fills an empty database with a usable floor plan and menu. Every
// insert is keyed so running it again changes nothing.
func Seed(ctx context.Context, db *gorm.DB, admin Admin, log *slog.Logger) error {
	db = db.WithContext(ctx)

	// ============= Seed admin =============
	if admin.Password != "" {
		if err := seedAdmin(db, admin); err != nil {
			return err
		}
	} else {
		log.Warn("ADMIN_PASSWORD not set, skipping admin account")
	}

	// ============= Seed tables =============
	tables := []models.Table{
		{Number: 1, Capacity: 2, Location: models.LocationIndoor},
		{Number: 2, Capacity: 4, Location: models.LocationIndoor},
		{Number: 3, Capacity: 4, Location: models.LocationIndoor},
		{Number: 4, Capacity: 6, Location: models.LocationPatio},
		{Number: 5, Capacity: 8, Location: models.LocationVIP},
		{Number: 6, Capacity: 2, Location: models.LocationBar},
	}
	for _, table := range tables {
		table.Status = models.TableAvailable
		table.IsActive = true
		if err := db.Where(models.Table{Number: table.Number}).FirstOrCreate(&table).Error; err != nil {
			return err
		}
	}

	// ============= Seed menu =============
	products := []models.Product{
		{Name: "Guacamole", Description: "Fresh avocado with lime and totopos", Category: models.CategoryEntree, Price: 95, SpiceLevel: models.SpiceMild},
		{Name: "Tacos al pastor", Description: "Three corn tortillas with marinated pork and pineapple", Category: models.CategoryMain, Price: 120, SpiceLevel: models.SpiceMedium},
		{Name: "Enchiladas rojas", Description: "Chicken enchiladas in guajillo sauce", Category: models.CategoryMain, Price: 140, SpiceLevel: models.SpiceHot},
		{Name: "Churros", Description: "With chocolate dipping sauce", Category: models.CategoryDessert, Price: 70, SpiceLevel: models.SpiceNone},
		{Name: "Horchata", Description: "Rice and cinnamon water", Category: models.CategoryDrink, Price: 45, SpiceLevel: models.SpiceNone},
	}
	for _, product := range products {
		product.IsAvailable = true
		if err := db.Where(models.Product{Name: product.Name}).FirstOrCreate(&product).Error; err != nil {
			return err
		}
	}

	log.Info("seed data ready", "tables", len(tables), "products", len(products))
	return nil
}

func seedAdmin(db *gorm.DB, admin Admin) error {
	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			FullName:     "Administrator",
			Username:     admin.Username,
			Email:        admin.Email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := tx.Where(models.User{Username: admin.Username}).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		employee := models.Employee{
			UserID:   user.ID,
			Code:     "EMP-001",
			Position: models.PositionAdmin,
			IsActive: true,
		}
		return tx.Omit("User").Where(models.Employee{UserID: user.ID}).FirstOrCreate(&employee).Error
	})
}
