package services

import (
	"context"
	"time"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"gorm.io/gorm"
)

type ProductSummary struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SalesSummary is the admin dashboard. Cancelled orders never count as
// revenue.
type SalesSummary struct {
	CurrentMonthRevenue float64                      `json:"currentMonthRevenue"`
	LastMonthRevenue    float64                      `json:"lastMonthRevenue"`
	MonthGrowth         float64                      `json:"monthGrowth"`
	TopProducts         []ProductSummary             `json:"topProducts"`
	OrdersByStatus      map[models.OrderStatus]int64 `json:"ordersByStatus"`
	TotalOrders         int64                        `json:"totalOrders"`
	AvgOrderValue       float64                      `json:"avgOrderValue"`
	TodayReservations   int64                        `json:"todayReservations"`
}

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

func (s *ReportService) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	year, month, _ := now.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	firstOfLastMonth := firstOfMonth.AddDate(0, -1, 0)

	summary := &SalesSummary{OrdersByStatus: map[models.OrderStatus]int64{}}
	var err error

	if summary.CurrentMonthRevenue, err = s.revenue(db, firstOfMonth, firstOfNextMonth); err != nil {
		return nil, utils.PersistenceError(err, "Failed to get monthly revenue")
	}
	if summary.LastMonthRevenue, err = s.revenue(db, firstOfLastMonth, firstOfMonth); err != nil {
		return nil, utils.PersistenceError(err, "Failed to get last month revenue")
	}
	summary.MonthGrowth = growthPercentage(summary.CurrentMonthRevenue, summary.LastMonthRevenue)

	if summary.TopProducts, err = s.topProducts(db, firstOfMonth, firstOfNextMonth, 5); err != nil {
		return nil, utils.PersistenceError(err, "Failed to get top products")
	}

	var counts []struct {
		Status models.OrderStatus
		Count  int64
	}
	err = db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to count orders")
	}
	for _, row := range counts {
		summary.OrdersByStatus[row.Status] = row.Count
		summary.TotalOrders += row.Count
	}

	var billed struct {
		Count int64
		Total float64
	}
	err = db.Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("status <> ?", models.OrderCancelled).
		Scan(&billed).Error
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to get average order value")
	}
	if billed.Count > 0 {
		summary.AvgOrderValue = billed.Total / float64(billed.Count)
	}

	err = db.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status IN ?", utils.Today(s.now()), models.HoldingReservationStatuses).
		Count(&summary.TodayReservations).Error
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to count reservations")
	}

	return summary, nil
}

func (s *ReportService) revenue(db *gorm.DB, start, end time.Time) (float64, error) {
	var total float64
	err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, end, models.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (s *ReportService) topProducts(db *gorm.DB, start, end time.Time, limit int) ([]ProductSummary, error) {
	products := []ProductSummary{}
	err := db.Table("order_items").
		Select("products.name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", start, end, models.OrderCancelled).
		Group("products.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&products).Error
	return products, err
}

func growthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}
