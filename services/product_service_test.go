package services

import (
	"context"
	"testing"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
)

func TestProductRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductInput{
		Name:       "Sopes",
		Category:   models.CategoryEntree,
		Price:      120,
		SpiceLevel: models.SpiceMild,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Sopes" || got.Category != models.CategoryEntree || got.Price != 120 || got.SpiceLevel != models.SpiceMild {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.IsAvailable {
		t.Error("new products should be available")
	}
}

func TestProductCreateDefaultsAndValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, discardLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Agua fresca", Category: models.CategoryDrink, Price: 35})
	if err != nil {
		t.Fatal(err)
	}
	if p.SpiceLevel != models.SpiceNone {
		t.Errorf("spice level = %s, want none", p.SpiceLevel)
	}

	tests := []struct {
		name  string
		input ProductInput
	}{
		{"missing name", ProductInput{Category: models.CategoryMain, Price: 10}},
		{"missing price", ProductInput{Name: "x", Category: models.CategoryMain}},
		{"negative price", ProductInput{Name: "x", Category: models.CategoryMain, Price: -5}},
		{"bad category", ProductInput{Name: "x", Category: "snack", Price: 10}},
		{"bad spice", ProductInput{Name: "x", Category: models.CategoryMain, Price: 10, SpiceLevel: "volcanic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assertKind(t, err, utils.ErrValidation)
		})
	}
}

func TestProductUpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, discardLogger())
	ctx := context.Background()
	p := createProduct(t, db, "Pozole", 150)

	price := 165.0
	updated, err := svc.Update(ctx, p.ID, ProductUpdate{Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 165 || updated.Name != "Pozole" || updated.Category != models.CategoryMain {
		t.Errorf("unexpected update result: %+v", updated)
	}

	bad := 0.0
	_, err = svc.Update(ctx, p.ID, ProductUpdate{Price: &bad})
	assertKind(t, err, utils.ErrValidation)

	_, err = svc.Update(ctx, uuid.New(), ProductUpdate{Price: &price})
	assertKind(t, err, utils.ErrNotFound)
}

func TestProductAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, discardLogger())
	ctx := context.Background()
	tacos := createProduct(t, db, "Tacos", 80)
	createProduct(t, db, "Tortas", 90)

	if _, err := svc.SetAvailability(ctx, tacos.ID, false); err != nil {
		t.Fatal(err)
	}

	available := true
	list, err := svc.List(ctx, ProductFilter{Available: &available})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Tortas" {
		t.Errorf("available products = %+v", list)
	}

	byCategory, err := svc.ListByCategory(ctx, models.CategoryMain)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 1 {
		t.Errorf("category listing = %d products, want 1", len(byCategory))
	}

	_, err = svc.ListByCategory(ctx, "snack")
	assertKind(t, err, utils.ErrValidation)
}

func TestProductDeleteRemovesOrderLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, discardLogger())
	orders := NewOrderService(db, NopPublisher{}, discardLogger())
	ctx := context.Background()

	user := createUser(t, db, "diner", models.RoleCustomer)
	tacos := createProduct(t, db, "Tacos", 80)
	soup := createProduct(t, db, "Soup", 45)
	if _, err := orders.Create(ctx, user.ID, CreateOrderInput{Items: []OrderItemInput{
		{ProductID: tacos.ID, Quantity: 1, UnitPrice: 80},
		{ProductID: soup.ID, Quantity: 1, UnitPrice: 45},
	}}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Delete(ctx, tacos.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.RemovedOrderItems != 1 {
		t.Errorf("removed order items = %d, want 1", result.RemovedOrderItems)
	}
	if n := count(t, db, &models.OrderItem{}); n != 1 {
		t.Errorf("order items left = %d, want 1", n)
	}

	_, err = svc.Get(ctx, tacos.ID)
	assertKind(t, err, utils.ErrNotFound)

	_, err = svc.Delete(ctx, tacos.ID)
	assertKind(t, err, utils.ErrNotFound)
}
