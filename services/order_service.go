package services

import (
	"context"
	"log/slog"
	"time"

	"chiludos-backend/broker"
	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID   uuid.UUID `json:"productId"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	Preferences string    `json:"preferences"`
}

type CreateOrderInput struct {
	TableID  *uuid.UUID       `json:"tableId"`
	Type     models.OrderType `json:"type"`
	Comments string           `json:"comments"`
	Items    []OrderItemInput `json:"items"`
}

type OrderFilter struct {
	Status  *models.OrderStatus
	Date    *time.Time
	TableID *uuid.UUID
}

type OrderItemView struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	Subtotal    float64   `json:"subtotal"`
	Preferences string    `json:"preferences,omitempty"`
}

// OrderView is an order with the names a client needs to display it.
type OrderView struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"userId"`
	CustomerName string             `json:"customerName"`
	TableID      *uuid.UUID         `json:"tableId,omitempty"`
	TableNumber  *int               `json:"tableNumber,omitempty"`
	Total        float64            `json:"total"`
	Type         models.OrderType   `json:"type"`
	Comments     string             `json:"comments,omitempty"`
	Status       models.OrderStatus `json:"status"`
	Items        []OrderItemView    `json:"items"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type OrderService struct {
	db     *gorm.DB
	events EventPublisher
	log    *slog.Logger
}

func NewOrderService(db *gorm.DB, events EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{db: db, events: events, log: log}
}

// Create stores the order, its lines and the table occupancy in a single
// transaction. The total is fixed here and never recomputed.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*OrderView, error) {
	if len(in.Items) == 0 {
		return nil, utils.ValidationError("Order must contain at least one item")
	}
	if in.Type == "" {
		in.Type = models.OrderDineIn
	}
	if !in.Type.Valid() {
		return nil, utils.ValidationError("Invalid order type")
	}

	order := models.Order{
		UserID:   userID,
		TableID:  in.TableID,
		Type:     in.Type,
		Comments: in.Comments,
		Status:   models.OrderPending,
		Items:    make([]models.OrderItem, 0, len(in.Items)),
	}
	productIDs := make(map[uuid.UUID]struct{}, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return nil, utils.ValidationError("Each item requires a product")
		}
		if item.Quantity <= 0 {
			return nil, utils.ValidationError("Quantity must be greater than 0")
		}
		if item.UnitPrice <= 0 {
			return nil, utils.ValidationError("Unit price must be greater than 0")
		}

		subtotal := item.UnitPrice * float64(item.Quantity)
		order.Total += subtotal
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
			Preferences: item.Preferences,
		})
		productIDs[item.ProductID] = struct{}{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.TableID != nil {
			var table models.Table
			if err := tx.Select("id").First(&table, "id = ?", *in.TableID).Error; err != nil {
				return loadErr(err, "Table")
			}
		}

		ids := make([]uuid.UUID, 0, len(productIDs))
		for id := range productIDs {
			ids = append(ids, id)
		}
		var found int64
		if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(ids)) {
			return utils.NotFoundError("Product not found")
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if in.TableID != nil {
			return setTableStatus(tx, *in.TableID, models.TableOccupied)
		}
		return nil
	})
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to create order")
	}

	s.log.Info("order created", "order_id", order.ID, "items", len(order.Items), "total", order.Total)
	publish(ctx, s.log, s.events, broker.OrderCreated, map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
		"tableId": order.TableID,
		"total":   order.Total,
		"type":    order.Type,
	})

	return s.Get(ctx, order.ID)
}

// List returns orders newest first. A set Date matches the UTC calendar
// day of the order's creation.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]OrderView, error) {
	q := s.preloaded(ctx)
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, utils.ValidationError("Invalid order status")
		}
		q = q.Where("status = ?", *f.Status)
	}
	if f.Date != nil {
		start, end := utils.DayRange(f.Date.UTC())
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if f.TableID != nil {
		q = q.Where("table_id = ?", *f.TableID)
	}
	return s.find(q)
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	return s.find(s.preloaded(ctx).Where("user_id = ?", userID))
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order models.Order
	if err := s.preloaded(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Order")
	}
	view := newOrderView(&order)
	return &view, nil
}

// UpdateStatus accepts any valid state. Paid or cancelled orders keep their
// table as it is.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*OrderView, error) {
	if !status.Valid() {
		return nil, utils.ValidationError("Invalid order status")
	}

	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.Select("id", "status").First(&order, "id = ?", id).Error; err != nil {
		return nil, loadErr(err, "Order")
	}
	previous := order.Status
	if err := db.Model(&order).Update("status", status).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update order status")
	}

	publish(ctx, s.log, s.events, broker.OrderStatusChanged, map[string]any{
		"orderId":   id,
		"oldStatus": previous,
		"newStatus": status,
	})
	return s.Get(ctx, id)
}

func (s *OrderService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Table").
		Preload("Items.Product")
}

func (s *OrderService) find(q *gorm.DB) ([]OrderView, error) {
	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to retrieve orders")
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views, nil
}

func newOrderView(o *models.Order) OrderView {
	view := OrderView{
		ID:           o.ID,
		UserID:       o.UserID,
		CustomerName: o.User.FullName,
		TableID:      o.TableID,
		Total:        o.Total,
		Type:         o.Type,
		Comments:     o.Comments,
		Status:       o.Status,
		Items:        make([]OrderItemView, 0, len(o.Items)),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.Table != nil {
		number := o.Table.Number
		view.TableNumber = &number
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			Preferences: item.Preferences,
		})
	}
	return view
}
