package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
)

type analyticsLine struct {
	product  *models.Product
	quantity int
	total    string
}

func (env *serviceTestEnv) seedOrder(t *testing.T, number string, userID uint, status, paymentStatus, total string, createdAt time.Time, lines ...analyticsLine) {
	t.Helper()
	order := &models.Order{
		OrderNumber:   number,
		UserID:        userID,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: constants.PaymentMethodCOD,
		Currency:      "INR",
		TotalAmount:   models.MustMoney(total),
		CreatedAt:     createdAt,
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	for _, line := range lines {
		item := &models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			Quantity:    line.quantity,
			TotalPrice:  models.MustMoney(line.total),
		}
		if err := env.db.Create(item).Error; err != nil {
			t.Fatalf("seed order item failed: %v", err)
		}
	}
}

func seedAnalytics(t *testing.T) *serviceTestEnv {
	t.Helper()
	env := setupServiceTest(t)
	env.analytics.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	loyal := env.createUser(t, "loyal@example.com")
	flaky := env.createUser(t, "flaky@example.com")
	tee := env.createProduct(t, "stats-tee", "40", 3, true)
	hat := env.createProduct(t, "stats-cap", "20", 0, true)
	env.createProduct(t, "stats-coat", "120", 50, true)

	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	env.seedOrder(t, "ORD-A", loyal.ID, constants.OrderStatusDelivered, constants.PaymentStatusPaid, "100.00", day(9, 10),
		analyticsLine{tee, 2, "80.00"}, analyticsLine{hat, 1, "20.00"})
	env.seedOrder(t, "ORD-B", loyal.ID, constants.OrderStatusProcessing, constants.PaymentStatusPending, "50.00", day(10, 9),
		analyticsLine{tee, 1, "40.00"})
	env.seedOrder(t, "ORD-C", flaky.ID, constants.OrderStatusCancelled, constants.PaymentStatusPending, "70.00", day(9, 11),
		analyticsLine{hat, 3, "70.00"})
	env.seedOrder(t, "ORD-OLD", flaky.ID, constants.OrderStatusDelivered, constants.PaymentStatusPaid, "30.00", time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		analyticsLine{tee, 1, "30.00"})
	return env
}

func TestAnalyticsOverviewExcludesCancelledRevenue(t *testing.T) {
	env := seedAnalytics(t)

	overview, err := env.analytics.GetOverview(context.Background(), AnalyticsQueryInput{Range: "7d", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	kpi := overview.KPI
	if kpi.OrdersTotal != 3 || kpi.CancelledOrders != 1 || kpi.PaidOrders != 1 {
		t.Fatalf("unexpected order counts %+v", kpi)
	}
	if kpi.Revenue != "150.00" || kpi.PaidRevenue != "100.00" || kpi.AverageOrderValue != "75.00" {
		t.Fatalf("unexpected revenue %+v", kpi)
	}
	if kpi.Customers != 1 {
		t.Fatalf("cancelled-only customers should not count, got %d", kpi.Customers)
	}
	if kpi.ActiveProducts != 3 || kpi.OutOfStockProducts != 1 || kpi.LowStockProducts != 1 {
		t.Fatalf("unexpected stock stats %+v", kpi)
	}
	if overview.StatusCounts[constants.OrderStatusCancelled] != 1 || overview.StatusCounts[constants.OrderStatusProcessing] != 1 {
		t.Fatalf("unexpected status counts %v", overview.StatusCounts)
	}
	if len(overview.RecentOrders) != 4 || overview.RecentOrders[0].OrderNumber != "ORD-B" {
		t.Fatalf("recent orders should be newest first, got %+v", overview.RecentOrders)
	}
	if overview.From != "2026-03-04T00:00:00Z" || overview.To != "2026-03-10T23:59:59Z" {
		t.Fatalf("unexpected window %s..%s", overview.From, overview.To)
	}
}

func TestAnalyticsTrendsFillEveryDay(t *testing.T) {
	env := seedAnalytics(t)

	trends, err := env.analytics.GetTrends(context.Background(), AnalyticsQueryInput{Range: "7d", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("trends failed: %v", err)
	}
	if len(trends.Points) != 7 {
		t.Fatalf("want 7 daily points got %d", len(trends.Points))
	}
	byDay := make(map[string]AnalyticsTrendPoint, len(trends.Points))
	for _, point := range trends.Points {
		byDay[point.Date] = point
	}
	if got := byDay["2026-03-09"]; got.OrdersTotal != 2 || got.Revenue != "100.00" {
		t.Fatalf("unexpected 03-09 point %+v", got)
	}
	if got := byDay["2026-03-10"]; got.OrdersTotal != 1 || got.Revenue != "50.00" {
		t.Fatalf("unexpected 03-10 point %+v", got)
	}
	if got := byDay["2026-03-04"]; got.OrdersTotal != 0 || got.Revenue != "0.00" {
		t.Fatalf("empty days should be zero-filled, got %+v", got)
	}
}

func TestAnalyticsTopProducts(t *testing.T) {
	env := seedAnalytics(t)

	top, err := env.analytics.GetTopProducts(context.Background(), AnalyticsQueryInput{Range: "7d", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top.Products) != 2 {
		t.Fatalf("want 2 ranked products got %+v", top.Products)
	}
	first, second := top.Products[0], top.Products[1]
	if first.ProductName != "STATS-TEE" || first.Revenue != "120.00" || first.Quantity != 3 || first.Orders != 2 {
		t.Fatalf("unexpected leader %+v", first)
	}
	if second.ProductName != "STATS-CAP" || second.Revenue != "20.00" || second.Quantity != 1 {
		t.Fatalf("cancelled lines should not count, got %+v", second)
	}
}

func TestAnalyticsRangeValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 23, 59, 59, 0, time.UTC)

	window, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "custom", From: &from, To: &to, Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("custom range failed: %v", err)
	}
	if !window.startAt.Equal(from) || !window.endAt.Equal(to.Add(time.Second)) {
		t.Fatalf("unexpected custom window %v..%v", window.startAt, window.endAt)
	}

	today, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "TODAY", Timezone: "Asia/Kolkata"}, now)
	if err != nil {
		t.Fatalf("today range failed: %v", err)
	}
	if today.timezone != "Asia/Kolkata" || today.endAt.Sub(today.startAt) != 24*time.Hour {
		t.Fatalf("unexpected today window %+v", today)
	}

	invalid := []AnalyticsQueryInput{
		{Range: "90d"},
		{Range: "custom"},
		{Range: "custom", From: &to, To: &from},
	}
	for _, input := range invalid {
		if _, err := resolveAnalyticsWindow(input, now); !errors.Is(err, ErrAnalyticsRangeInvalid) {
			t.Fatalf("expected ErrAnalyticsRangeInvalid for %q, got %v", input.Range, err)
		}
	}
}
