package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/models"
)

func TestWishlistAddIsIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "wishlist@example.com")
	other := env.createUser(t, "wishlist_other@example.com")
	first := env.createProduct(t, "wish-scarf", "18", 3, true)
	second := env.createProduct(t, "wish-boots", "90", 3, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := env.wishlist.Add(ctx, user.ID, first.ID); err != nil {
			t.Fatalf("add #%d failed: %v", i+1, err)
		}
	}
	if err := env.wishlist.Add(ctx, user.ID, second.ID); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	items, err := env.wishlist.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 wishlist items got %d", len(items))
	}
	if items[0].Product == nil || items[0].Product.Slug == "" {
		t.Fatalf("wishlist items should carry product, got %+v", items[0])
	}
	if others, _ := env.wishlist.List(ctx, other.ID); len(others) != 0 {
		t.Fatalf("wishlist must be scoped to user, got %d", len(others))
	}

	in, err := env.wishlist.Contains(ctx, user.ID, first.ID)
	if err != nil || !in {
		t.Fatalf("expected product in wishlist, in=%v err=%v", in, err)
	}
}

func TestWishlistRemoveAndValidation(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "wishlist_remove@example.com")
	product := env.createProduct(t, "wish-belt", "25", 3, true)
	hidden := env.createProduct(t, "wish-hidden", "25", 3, true)
	if err := env.db.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	ctx := context.Background()

	if err := env.wishlist.Add(ctx, user.ID, hidden.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive product, got %v", err)
	}
	if err := env.wishlist.Add(ctx, user.ID, 9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for missing product, got %v", err)
	}

	if err := env.wishlist.Add(ctx, user.ID, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := env.wishlist.Remove(ctx, user.ID, product.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := env.wishlist.Remove(ctx, user.ID, product.ID); !errors.Is(err, ErrWishlistItemNotFound) {
		t.Fatalf("expected ErrWishlistItemNotFound, got %v", err)
	}

	// 商品删除后条目不再展示
	if err := env.wishlist.Add(ctx, user.ID, product.ID); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if err := env.db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	items, err := env.wishlist.List(ctx, user.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("deleted product should be hidden, got %d err=%v", len(items), err)
	}
}
