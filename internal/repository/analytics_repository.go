package repository

import (
	"fmt"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// AnalyticsRepository 后台经营分析聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type AnalyticsRepository interface {
	GetOverview(startAt, endAt time.Time) (AnalyticsOverviewRow, error)
	GetStatusBreakdown(startAt, endAt time.Time) ([]AnalyticsStatusRow, error)
	GetStockStats(lowStockThreshold int) (AnalyticsStockRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]AnalyticsTrendRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]AnalyticsProductRankingRow, error)
	ListRecentOrders(limit int) ([]models.Order, error)
}

// AnalyticsOverviewRow 总览原始统计结果，营收不含已取消订单
type AnalyticsOverviewRow struct {
	OrdersTotal     int64
	CancelledOrders int64
	PaidOrders      int64
	Revenue         float64
	PaidRevenue     float64
	Customers       int64
	NewUsers        int64
	ActiveProducts  int64
}

// AnalyticsStatusRow 订单状态分布
type AnalyticsStatusRow struct {
	Status string
	Total  int64
}

// AnalyticsStockRow 库存统计
type AnalyticsStockRow struct {
	OutOfStockProducts int64
	LowStockProducts   int64
}

// AnalyticsTrendRow 按日订单趋势
type AnalyticsTrendRow struct {
	Day         string
	OrdersTotal int64
	Revenue     float64
}

// AnalyticsProductRankingRow 商品排行原始行
type AnalyticsProductRankingRow struct {
	ProductID   uint
	ProductName string
	Orders      int64
	Quantity    int64
	Revenue     float64
}

// GormAnalyticsRepository GORM 聚合实现
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建经营分析仓库
func NewAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

const analyticsDayExpr = "CAST(date(created_at) AS TEXT)"

func (r *GormAnalyticsRepository) orderWindow(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
}

// GetOverview 获取总览统计
func (r *GormAnalyticsRepository) GetOverview(startAt, endAt time.Time) (AnalyticsOverviewRow, error) {
	result := AnalyticsOverviewRow{}

	if err := r.orderWindow(startAt, endAt).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := r.orderWindow(startAt, endAt).
		Where("status = ?", constants.OrderStatusCancelled).
		Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}
	if err := r.orderWindow(startAt, endAt).
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Count(&result.PaidOrders).Error; err != nil {
		return result, err
	}
	if err := r.orderWindow(startAt, endAt).
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	if err := r.orderWindow(startAt, endAt).
		Where("status <> ? AND payment_status = ?", constants.OrderStatusCancelled, constants.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.PaidRevenue).Error; err != nil {
		return result, err
	}
	if err := r.orderWindow(startAt, endAt).
		Where("status <> ?", constants.OrderStatusCancelled).
		Distinct("user_id").
		Count(&result.Customers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ? AND role_type = ?", startAt, endAt, constants.RoleCustomer).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetStatusBreakdown 按订单状态分组计数
func (r *GormAnalyticsRepository) GetStatusBreakdown(startAt, endAt time.Time) ([]AnalyticsStatusRow, error) {
	rows := make([]AnalyticsStatusRow, 0)
	if err := r.orderWindow(startAt, endAt).
		Select("status, COUNT(*) as total").
		Group("status").
		Order("total desc, status asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetStockStats 上架商品库存统计，有启用规格的按规格库存合计
func (r *GormAnalyticsRepository) GetStockStats(lowStockThreshold int) (AnalyticsStockRow, error) {
	result := AnalyticsStockRow{}

	type stockRow struct {
		ID            uint
		StockQuantity int
	}
	var products []stockRow
	if err := r.db.Model(&models.Product{}).
		Select("id, stock_quantity").
		Where("is_active = ?", true).
		Scan(&products).Error; err != nil {
		return result, err
	}
	if len(products) == 0 {
		return result, nil
	}

	type variantRow struct {
		ProductID uint
		Total     int
	}
	var variants []variantRow
	if err := r.db.Model(&models.ProductVariant{}).
		Select("product_id, COALESCE(SUM(stock_quantity), 0) as total").
		Where("is_active = ?", true).
		Group("product_id").
		Scan(&variants).Error; err != nil {
		return result, err
	}
	variantStock := make(map[uint]int, len(variants))
	for _, item := range variants {
		variantStock[item.ProductID] = item.Total
	}

	for _, product := range products {
		available := product.StockQuantity
		if total, ok := variantStock[product.ID]; ok {
			available = total
		}
		if available <= 0 {
			result.OutOfStockProducts++
		} else if available <= lowStockThreshold {
			result.LowStockProducts++
		}
	}
	return result, nil
}

// GetOrderTrends 按日统计订单数与营收（营收不含已取消）
func (r *GormAnalyticsRepository) GetOrderTrends(startAt, endAt time.Time) ([]AnalyticsTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type revenueRow struct {
		Day   string
		Total float64
	}

	var totals []totalRow
	if err := r.orderWindow(startAt, endAt).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", analyticsDayExpr)).
		Group(analyticsDayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var revenues []revenueRow
	if err := r.orderWindow(startAt, endAt).
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(total_amount), 0) as total", analyticsDayExpr)).
		Where("status <> ?", constants.OrderStatusCancelled).
		Group(analyticsDayExpr).
		Order("day asc").
		Scan(&revenues).Error; err != nil {
		return nil, err
	}

	revenueMap := make(map[string]float64, len(revenues))
	for _, item := range revenues {
		revenueMap[item.Day] = item.Total
	}
	result := make([]AnalyticsTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, AnalyticsTrendRow{
			Day:         item.Day,
			OrdersTotal: item.Total,
			Revenue:     revenueMap[item.Day],
		})
	}
	return result, nil
}

// GetTopProducts 按销售额排行，名称取订单项快照
func (r *GormAnalyticsRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]AnalyticsProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]AnalyticsProductRankingRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(`
			order_items.product_id as product_id,
			MAX(order_items.product_name) as product_name,
			COUNT(DISTINCT order_items.order_id) as orders,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.total_price), 0) as revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", startAt, endAt, constants.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("revenue DESC, quantity DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentOrders 最近订单
func (r *GormAnalyticsRepository) ListRecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var orders []models.Order
	if err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
