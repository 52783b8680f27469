package services

import (
	"context"
	"log/slog"
	"strings"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Category  *models.Category
	Available *bool
}

type ProductInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    models.Category   `json:"category"`
	Price       float64           `json:"price"`
	SpiceLevel  models.SpiceLevel `json:"spiceLevel"`
	IsAvailable *bool             `json:"isAvailable"`
	ImageURL    string            `json:"imageUrl"`
}

// ProductUpdate only touches the fields that are set.
type ProductUpdate struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Category    *models.Category   `json:"category"`
	Price       *float64           `json:"price"`
	SpiceLevel  *models.SpiceLevel `json:"spiceLevel"`
	IsAvailable *bool              `json:"isAvailable"`
	ImageURL    *string            `json:"imageUrl"`
}

type ProductDeleteResult struct {
	RemovedOrderItems int64 `json:"removedOrderItems"`
}

type ProductService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewProductService(db *gorm.DB, log *slog.Logger) *ProductService {
	return &ProductService{db: db, log: log}
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != nil {
		if !f.Category.Valid() {
			return nil, utils.ValidationError("Invalid category")
		}
		q = q.Where("category = ?", *f.Category)
	}
	if f.Available != nil {
		q = q.Where("is_available = ?", *f.Available)
	}

	products := []models.Product{}
	if err := q.Order("category, name").Find(&products).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve products")
	}
	return products, nil
}

// ListByCategory returns the available products of one menu category.
func (s *ProductService) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	available := true
	return s.List(ctx, ProductFilter{Category: &category, Available: &available})
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Product")
	}
	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Category == "" || in.Price == 0 {
		return nil, utils.ValidationError("Name, category and price are required")
	}
	if in.SpiceLevel == "" {
		in.SpiceLevel = models.SpiceNone
	}
	if err := validateProduct(in.Category, in.Price, in.SpiceLevel); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		SpiceLevel:  in.SpiceLevel,
		IsAvailable: true,
		ImageURL:    in.ImageURL,
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to create product")
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in ProductUpdate) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category, price, spice := product.Category, product.Price, product.SpiceLevel
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.ValidationError("Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		category = *in.Category
		updates["category"] = category
	}
	if in.Price != nil {
		price = *in.Price
		updates["price"] = price
	}
	if in.SpiceLevel != nil {
		spice = *in.SpiceLevel
		updates["spice_level"] = spice
	}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if err := validateProduct(category, price, spice); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update product")
	}
	return s.Get(ctx, id)
}

// Delete removes the product together with every order line that
// references it.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (*ProductDeleteResult, error) {
	result := &ProductDeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return loadErr(err, "Product")
		}

		items := tx.Where("product_id = ?", id).Delete(&models.OrderItem{})
		if items.Error != nil {
			return items.Error
		}
		result.RemovedOrderItems = items.RowsAffected

		return tx.Delete(&product).Error
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to delete product")
	}

	s.log.Info("product deleted", "product_id", id, "removed_order_items", result.RemovedOrderItems)
	return result, nil
}

func (s *ProductService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("is_available", available).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update product availability")
	}
	product.IsAvailable = available
	return product, nil
}

func validateProduct(category models.Category, price float64, spice models.SpiceLevel) error {
	if !category.Valid() {
		return utils.ValidationError("Invalid category")
	}
	if price <= 0 {
		return utils.ValidationError("Price must be greater than 0")
	}
	if !spice.Valid() {
		return utils.ValidationError("Invalid spice level")
	}
	return nil
}
