package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	analyticsCustomMaxDays = 366
	analyticsRecentOrders  = 5
)

// AnalyticsService 后台经营分析
type AnalyticsService struct {
	cfg   config.AnalyticsConfig
	repo  repository.AnalyticsRepository
	cache *cache.Store
	now   func() time.Time
}

// NewAnalyticsService 创建经营分析服务
func NewAnalyticsService(cfg config.AnalyticsConfig, repo repository.AnalyticsRepository, store *cache.Store) *AnalyticsService {
	return &AnalyticsService{cfg: cfg, repo: repo, cache: store, now: time.Now}
}

// AnalyticsQueryInput 统计区间：today/7d/30d/custom
type AnalyticsQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// AnalyticsOverview 总览
type AnalyticsOverview struct {
	Range        string                 `json:"range"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Timezone     string                 `json:"timezone"`
	KPI          AnalyticsKPI           `json:"kpi"`
	StatusCounts map[string]int64       `json:"status_counts"`
	RecentOrders []AnalyticsRecentOrder `json:"recent_orders"`
}

// AnalyticsKPI 核心指标，金额为两位小数字符串
type AnalyticsKPI struct {
	OrdersTotal        int64  `json:"orders_total"`
	CancelledOrders    int64  `json:"cancelled_orders"`
	PaidOrders         int64  `json:"paid_orders"`
	Revenue            string `json:"revenue"`
	PaidRevenue        string `json:"paid_revenue"`
	AverageOrderValue  string `json:"average_order_value"`
	Customers          int64  `json:"customers"`
	NewUsers           int64  `json:"new_users"`
	ActiveProducts     int64  `json:"active_products"`
	OutOfStockProducts int64  `json:"out_of_stock_products"`
	LowStockProducts   int64  `json:"low_stock_products"`
}

// AnalyticsRecentOrder 最近订单摘要
type AnalyticsRecentOrder struct {
	OrderNumber   string       `json:"order_number"`
	Status        string       `json:"status"`
	PaymentStatus string       `json:"payment_status"`
	TotalAmount   models.Money `json:"total_amount"`
	CreatedAt     time.Time    `json:"created_at"`
}

// AnalyticsTrends 按日趋势，区间内每天一个点
type AnalyticsTrends struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []AnalyticsTrendPoint `json:"points"`
}

// AnalyticsTrendPoint 单日数据
type AnalyticsTrendPoint struct {
	Date        string `json:"date"`
	OrdersTotal int64  `json:"orders_total"`
	Revenue     string `json:"revenue"`
}

// AnalyticsTopProducts 商品排行
type AnalyticsTopProducts struct {
	Range    string                    `json:"range"`
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Timezone string                    `json:"timezone"`
	Products []AnalyticsProductRanking `json:"products"`
}

// AnalyticsProductRanking 排行项
type AnalyticsProductRanking struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Orders      int64  `json:"orders"`
	Quantity    int64  `json:"quantity"`
	Revenue     string `json:"revenue"`
}

type analyticsWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

func (w analyticsWindow) cacheKey(kind string) string {
	return fmt.Sprintf("analytics:%s:%s:%d:%d:%s", kind, w.rangeKey, w.startAt.Unix(), w.endAt.Unix(), w.timezone)
}

func (w analyticsWindow) from() string {
	return w.startAt.Format(time.RFC3339)
}

func (w analyticsWindow) to() string {
	return w.endAt.Add(-time.Second).Format(time.RFC3339)
}

// GetOverview 获取总览
func (s *AnalyticsService) GetOverview(ctx context.Context, input AnalyticsQueryInput) (*AnalyticsOverview, error) {
	window, err := resolveAnalyticsWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	cacheKey := window.cacheKey("overview")
	var cached AnalyticsOverview
	if s.readCache(ctx, input, cacheKey, &cached) {
		return &cached, nil
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, wrapStore(err)
	}
	stock, err := s.repo.GetStockStats(s.cfg.LowStockThreshold)
	if err != nil {
		return nil, wrapStore(err)
	}
	statuses, err := s.repo.GetStatusBreakdown(window.startAt, window.endAt)
	if err != nil {
		return nil, wrapStore(err)
	}
	recent, err := s.repo.ListRecentOrders(analyticsRecentOrders)
	if err != nil {
		return nil, wrapStore(err)
	}

	revenue := moneyFromAggregate(overview.Revenue)
	average := decimal.Zero
	if placed := overview.OrdersTotal - overview.CancelledOrders; placed > 0 {
		average = revenue.Div(decimal.NewFromInt(placed))
	}

	statusCounts := make(map[string]int64, len(statuses))
	for _, row := range statuses {
		statusCounts[row.Status] = row.Total
	}
	recentOrders := make([]AnalyticsRecentOrder, 0, len(recent))
	for _, order := range recent {
		recentOrders = append(recentOrders, AnalyticsRecentOrder{
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			TotalAmount:   order.TotalAmount,
			CreatedAt:     order.CreatedAt,
		})
	}

	result := &AnalyticsOverview{
		Range:    window.rangeKey,
		From:     window.from(),
		To:       window.to(),
		Timezone: window.timezone,
		KPI: AnalyticsKPI{
			OrdersTotal:        overview.OrdersTotal,
			CancelledOrders:    overview.CancelledOrders,
			PaidOrders:         overview.PaidOrders,
			Revenue:            revenue.StringFixed(2),
			PaidRevenue:        moneyFromAggregate(overview.PaidRevenue).StringFixed(2),
			AverageOrderValue:  average.StringFixed(2),
			Customers:          overview.Customers,
			NewUsers:           overview.NewUsers,
			ActiveProducts:     overview.ActiveProducts,
			OutOfStockProducts: stock.OutOfStockProducts,
			LowStockProducts:   stock.LowStockProducts,
		},
		StatusCounts: statusCounts,
		RecentOrders: recentOrders,
	}
	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// GetTrends 获取按日趋势
func (s *AnalyticsService) GetTrends(ctx context.Context, input AnalyticsQueryInput) (*AnalyticsTrends, error) {
	window, err := resolveAnalyticsWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	cacheKey := window.cacheKey("trends")
	var cached AnalyticsTrends
	if s.readCache(ctx, input, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.GetOrderTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, wrapStore(err)
	}
	rowMap := make(map[string]repository.AnalyticsTrendRow, len(rows))
	for _, row := range rows {
		rowMap[row.Day] = row
	}

	points := make([]AnalyticsTrendPoint, 0)
	start := window.startAt
	for cursor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		row := rowMap[day]
		points = append(points, AnalyticsTrendPoint{
			Date:        day,
			OrdersTotal: row.OrdersTotal,
			Revenue:     moneyFromAggregate(row.Revenue).StringFixed(2),
		})
	}

	result := &AnalyticsTrends{
		Range:    window.rangeKey,
		From:     window.from(),
		To:       window.to(),
		Timezone: window.timezone,
		Points:   points,
	}
	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// GetTopProducts 获取商品销售排行
func (s *AnalyticsService) GetTopProducts(ctx context.Context, input AnalyticsQueryInput) (*AnalyticsTopProducts, error) {
	window, err := resolveAnalyticsWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	cacheKey := window.cacheKey(fmt.Sprintf("top_products:%d", s.cfg.TopProductsLimit))
	var cached AnalyticsTopProducts
	if s.readCache(ctx, input, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.GetTopProducts(window.startAt, window.endAt, s.cfg.TopProductsLimit)
	if err != nil {
		return nil, wrapStore(err)
	}
	products := make([]AnalyticsProductRanking, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.ProductName)
		if name == "" {
			name = "-"
		}
		products = append(products, AnalyticsProductRanking{
			ProductID:   row.ProductID,
			ProductName: name,
			Orders:      row.Orders,
			Quantity:    row.Quantity,
			Revenue:     moneyFromAggregate(row.Revenue).StringFixed(2),
		})
	}

	result := &AnalyticsTopProducts{
		Range:    window.rangeKey,
		From:     window.from(),
		To:       window.to(),
		Timezone: window.timezone,
		Products: products,
	}
	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

func (s *AnalyticsService) readCache(ctx context.Context, input AnalyticsQueryInput, key string, dest interface{}) bool {
	if input.ForceRefresh || s.cfg.CacheTTLSeconds <= 0 {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Ctx(ctx).Warnw("analytics_cache_read_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *AnalyticsService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cfg.CacheTTLSeconds <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, time.Duration(s.cfg.CacheTTLSeconds)*time.Second); err != nil {
		logger.Ctx(ctx).Warnw("analytics_cache_write_failed", "key", key, "error", err)
	}
}

// moneyFromAggregate SUM 结果按金额两位小数处理
func moneyFromAggregate(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

func resolveAnalyticsWindow(input AnalyticsQueryInput, now time.Time) (analyticsWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := analyticsWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return analyticsWindow{}, ErrAnalyticsRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) || endAt.Sub(startAt) > time.Hour*24*analyticsCustomMaxDays {
			return analyticsWindow{}, ErrAnalyticsRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return analyticsWindow{}, ErrAnalyticsRangeInvalid
	}
	return window, nil
}
