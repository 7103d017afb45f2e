package repository

import (
	"testing"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
)

func newTestOrder(userID uint, number string, key *string) *models.Order {
	return &models.Order{
		OrderNumber:    number,
		UserID:         userID,
		IdempotencyKey: key,
		Status:         constants.OrderStatusPending,
		PaymentStatus:  constants.PaymentStatusPending,
		PaymentMethod:  constants.PaymentMethodCOD,
		Currency:       "INR",
		SubtotalAmount: models.MustMoney("40"),
		ShippingAmount: models.MustMoney("5"),
		TotalAmount:    models.MustMoney("45"),
		ShippingAddress: models.AddressSnapshot{
			FirstName: "Asha", LastName: "Rao", Email: "asha@example.com",
		},
	}
}

func TestOrderCreateWithItemsAndOwnership(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	order := newTestOrder(user.ID, "ORD20260101000000123456", nil)
	items := []models.OrderItem{{ProductID: 1, ProductName: "Tee", Quantity: 2, UnitPriceAtPurchase: models.MustMoney("20"), TotalPrice: models.MustMoney("40")}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := repo.GetByNumberAndUser(order.OrderNumber, user.ID)
	if err != nil || got == nil {
		t.Fatalf("owner should see order, err=%v", err)
	}
	if len(got.Items) != 1 || got.Items[0].UnitPriceAtPurchase.String() != "20.00" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.ShippingAddress.FullName() != "Asha Rao" {
		t.Fatalf("snapshot not persisted: %+v", got.ShippingAddress)
	}

	got, err = repo.GetByNumberAndUser(order.OrderNumber, other.ID)
	if err != nil || got != nil {
		t.Fatalf("other user must not see order, got %+v err=%v", got, err)
	}
}

func TestOrderIdempotencyKeyUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "idem@example.com")
	key := "checkout-1"

	if err := repo.Create(newTestOrder(user.ID, "ORD-A", &key), nil); err != nil {
		t.Fatalf("create first order failed: %v", err)
	}
	if err := repo.Create(newTestOrder(user.ID, "ORD-B", &key), nil); err == nil {
		t.Fatalf("duplicate idempotency key should violate unique index")
	}
	// 未提供幂等键的订单互不冲突
	if err := repo.Create(newTestOrder(user.ID, "ORD-C", nil), nil); err != nil {
		t.Fatalf("nil key order failed: %v", err)
	}
	if err := repo.Create(newTestOrder(user.ID, "ORD-D", nil), nil); err != nil {
		t.Fatalf("second nil key order failed: %v", err)
	}

	got, err := repo.GetByUserAndIdempotencyKey(user.ID, key)
	if err != nil || got == nil || got.OrderNumber != "ORD-A" {
		t.Fatalf("lookup by key want ORD-A, got %+v err=%v", got, err)
	}
	if got, _ := repo.GetByUserAndIdempotencyKey(user.ID, " "); got != nil {
		t.Fatalf("blank key should not match")
	}
}

func TestOrderListByUserNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "list@example.com")

	older := newTestOrder(user.ID, "ORD-OLD", nil)
	older.CreatedAt = time.Now().Add(-48 * time.Hour)
	newer := newTestOrder(user.ID, "ORD-NEW", nil)
	for _, o := range []*models.Order{older, newer} {
		if err := repo.Create(o, nil); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	rows, total, err := repo.ListByUser(OrderListFilter{UserID: user.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || rows[0].OrderNumber != "ORD-NEW" {
		t.Fatalf("want newest first, got total=%d first=%s", total, rows[0].OrderNumber)
	}
}

func TestOrderUpdateFieldsIfGuardsStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "guard@example.com")
	order := newTestOrder(user.ID, "ORD-GUARD", nil)
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	affected, err := repo.UpdateFieldsIf(order.ID, constants.OrderStatusPending, constants.PaymentStatusPending, map[string]interface{}{
		"status": constants.OrderStatusCancelled,
	})
	if err != nil || affected != 1 {
		t.Fatalf("first guarded update want 1 row, got %d err=%v", affected, err)
	}
	affected, err = repo.UpdateFieldsIf(order.ID, constants.OrderStatusPending, constants.PaymentStatusPending, map[string]interface{}{
		"status": constants.OrderStatusProcessing,
	})
	if err != nil || affected != 0 {
		t.Fatalf("stale guarded update want 0 rows, got %d err=%v", affected, err)
	}
}

func TestResolveRecipientFallsBackToUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "fallback@example.com")
	order := newTestOrder(user.ID, "ORD-RCPT", nil)
	order.ShippingAddress.Email = ""
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	recipient, err := repo.ResolveRecipientByOrderID(order.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if recipient.Email != "fallback@example.com" || recipient.Name != "Asha Rao" {
		t.Fatalf("unexpected recipient: %+v", recipient)
	}
}
