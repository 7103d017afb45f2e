package repository

import (
	"testing"

	"github.com/SyncShire/E-Commerce/internal/models"
)

func TestCartFindLineDistinguishesVariantAndSize(t *testing.T) {
	db := openTestDB(t)
	repo := NewCartRepository(db)
	product := createTestProduct(t, db, "tee", "20", 5)
	variant := &models.ProductVariant{ProductID: product.ID, Name: "Blue", IsActive: true}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	owner := CartOwner{SessionID: "01HZZZZZZZZZZZZZZZZZZZZZZZ"}
	plain := &models.CartItem{SessionID: owner.SessionID, ProductID: product.ID, SelectedSize: "M", Quantity: 1}
	if err := repo.Create(plain); err != nil {
		t.Fatalf("create line failed: %v", err)
	}

	got, err := repo.FindLine(owner, product.ID, nil, "M")
	if err != nil || got == nil || got.ID != plain.ID {
		t.Fatalf("expected plain line, got %+v err=%v", got, err)
	}
	got, err = repo.FindLine(owner, product.ID, &variant.ID, "M")
	if err != nil || got != nil {
		t.Fatalf("variant line should not match plain line, got %+v err=%v", got, err)
	}
	got, err = repo.FindLine(owner, product.ID, nil, "L")
	if err != nil || got != nil {
		t.Fatalf("different size should not match, got %+v err=%v", got, err)
	}
}

func TestCartOwnersAreIsolated(t *testing.T) {
	db := openTestDB(t)
	repo := NewCartRepository(db)
	product := createTestProduct(t, db, "cap", "10", 5)
	user := createTestUser(t, db, "cart@example.com")

	userOwner := CartOwner{UserID: user.ID}
	anonOwner := CartOwner{SessionID: "anon-token"}
	userID := user.ID
	if err := repo.Create(&models.CartItem{UserID: &userID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("create user line failed: %v", err)
	}
	anonLine := &models.CartItem{SessionID: anonOwner.SessionID, ProductID: product.ID, Quantity: 1}
	if err := repo.Create(anonLine); err != nil {
		t.Fatalf("create anon line failed: %v", err)
	}

	rows, err := repo.ListByOwner(userOwner)
	if err != nil || len(rows) != 1 || rows[0].Quantity != 2 {
		t.Fatalf("user cart want 1 line qty 2, got %+v err=%v", rows, err)
	}
	if rows[0].Product == nil || rows[0].Product.ID != product.ID {
		t.Fatalf("expected preloaded product")
	}

	// 其他归属方无法删除
	if affected, err := repo.Delete(anonLine.ID, userOwner); err != nil || affected != 0 {
		t.Fatalf("foreign delete want 0 rows, got %d err=%v", affected, err)
	}
	rows, _ = repo.ListByOwner(anonOwner)
	if len(rows) != 1 {
		t.Fatalf("anon line should survive foreign delete")
	}

	if err := repo.ClearByOwner(userOwner); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	rows, _ = repo.ListByOwner(userOwner)
	if len(rows) != 0 {
		t.Fatalf("user cart should be empty, got %d", len(rows))
	}
	rows, _ = repo.ListByOwner(anonOwner)
	if len(rows) != 1 {
		t.Fatalf("anon cart should be untouched, got %d", len(rows))
	}
}

func TestCartZeroOwnerReturnsEmpty(t *testing.T) {
	db := openTestDB(t)
	rows, err := NewCartRepository(db).ListByOwner(CartOwner{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("zero owner want empty, got %d err=%v", len(rows), err)
	}
}
