package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
)

func TestAddToCartMergesSameLine(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "cart_merge@example.com")
	product := env.createProduct(t, "linen-shirt", "20.00", 10, true, "S", "M", "L")
	id := userIdentity(user.ID)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, id, AddCartItemInput{ProductID: product.ID, Quantity: 1, Size: "M"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	snapshot, err := env.cart.AddToCart(ctx, id, AddCartItemInput{ProductID: product.ID, Quantity: 2, Size: "M"})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(snapshot.Items))
	}
	if snapshot.Items[0].Quantity != 3 || snapshot.Count != 3 {
		t.Fatalf("expected quantity 3, got line=%d count=%d", snapshot.Items[0].Quantity, snapshot.Count)
	}
	if snapshot.Total.String() != "60.00" {
		t.Fatalf("expected total 60.00, got %s", snapshot.Total.String())
	}

	snapshot, err = env.cart.AddToCart(ctx, id, AddCartItemInput{ProductID: product.ID, Quantity: 1, Size: "L"})
	if err != nil {
		t.Fatalf("add other size failed: %v", err)
	}
	if len(snapshot.Items) != 2 {
		t.Fatalf("different size should be a separate line, got %d", len(snapshot.Items))
	}
}

func TestAddToCartValidation(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "cart_validate@example.com")
	sized := env.createProduct(t, "sized-tee", "15.00", 5, true, "M")
	empty := env.createProduct(t, "sold-out", "15.00", 0, true)
	id := userIdentity(user.ID)
	ctx := context.Background()

	cases := []struct {
		name  string
		input AddCartItemInput
		want  error
	}{
		{"zero quantity", AddCartItemInput{ProductID: sized.ID, Quantity: 0, Size: "M"}, ErrInvalidQuantity},
		{"missing size", AddCartItemInput{ProductID: sized.ID, Quantity: 1}, ErrSizeRequired},
		{"unknown size", AddCartItemInput{ProductID: sized.ID, Quantity: 1, Size: "XXL"}, ErrSizeInvalid},
		{"out of stock", AddCartItemInput{ProductID: empty.ID, Quantity: 1}, ErrOutOfStock},
		{"missing product", AddCartItemInput{ProductID: 9999, Quantity: 1}, ErrProductNotAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.cart.AddToCart(ctx, id, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
	if lines := env.cart.FetchCart(ctx, id); len(lines) != 0 {
		t.Fatalf("rejected adds must not write lines, got %d", len(lines))
	}
}

func TestAnonymousCartIsolatedFromUser(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "cart_anon@example.com")
	product := env.createProduct(t, "mug", "8.50", 10, true)
	ctx := context.Background()

	sessions := NewSessionService(nil)
	anon, issued := sessions.Resolve(ctx, 0, "")
	if !issued || anon.Token == "" {
		t.Fatalf("expected a new anonymous token")
	}
	again, issued := sessions.Resolve(ctx, 0, anon.Token)
	if issued || again.Token != anon.Token {
		t.Fatalf("valid token should be reused")
	}

	if _, err := env.cart.AddToCart(ctx, anon, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("anonymous add failed: %v", err)
	}
	if lines := env.cart.FetchCart(ctx, userIdentity(user.ID)); len(lines) != 0 {
		t.Fatalf("user cart should not see anonymous lines")
	}
	if lines := env.cart.FetchCart(ctx, anon); len(lines) != 1 {
		t.Fatalf("anonymous cart should have one line")
	}
}

func TestCartLineOwnership(t *testing.T) {
	env := setupServiceTest(t)
	owner := env.createUser(t, "cart_owner@example.com")
	other := env.createUser(t, "cart_other@example.com")
	product := env.createProduct(t, "cap", "12.00", 10, true)
	ctx := context.Background()

	snapshot, err := env.cart.AddToCart(ctx, userIdentity(owner.ID), AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := snapshot.Items[0].ID
	if _, err := env.cart.UpdateQuantity(ctx, userIdentity(other.ID), lineID, 5); !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
	if _, err := env.cart.RemoveFromCart(ctx, userIdentity(other.ID), lineID); !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound for foreign remove, got %v", err)
	}
	if lines := env.cart.FetchCart(ctx, userIdentity(owner.ID)); len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("owner line must be untouched: %+v", lines)
	}

	snapshot, err = env.cart.RemoveFromCart(ctx, userIdentity(owner.ID), lineID)
	if err != nil {
		t.Fatalf("owner remove failed: %v", err)
	}
	if len(snapshot.Items) != 0 {
		t.Fatalf("cart should be empty after remove, got %d", len(snapshot.Items))
	}
	if _, err := env.cart.RemoveFromCart(ctx, userIdentity(owner.ID), lineID); !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("second remove should report missing line, got %v", err)
	}
}

func TestCartTotalPrefersVariantPrice(t *testing.T) {
	variantPrice := models.MustMoney("30.00")
	lines := []CartLineDetail{
		{Quantity: 2, Product: &models.Product{Price: models.MustMoney("20.00")}},
		{Quantity: 1, Product: &models.Product{Price: models.MustMoney("20.00")}, Variant: &models.ProductVariant{Price: &variantPrice}},
		{Quantity: 4},
	}
	if got := CartTotal(lines).StringFixed(2); got != "70.00" {
		t.Fatalf("expected 70.00 got %s", got)
	}
	if got := CartCount(lines); got != 7 {
		t.Fatalf("expected count 7 got %d", got)
	}
}

func TestSessionResolvePrefersUser(t *testing.T) {
	id, issued := NewSessionService(nil).Resolve(context.Background(), 42, "not-a-ulid")
	if issued || id.Kind != constants.IdentityKindUser || id.UserID != 42 || id.Token != "" {
		t.Fatalf("unexpected identity: %+v issued=%v", id, issued)
	}
}
