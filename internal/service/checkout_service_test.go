package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/shopspring/decimal"
)

func TestQuoteShippingRule(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity int
		subtotal string
		shipping string
		total    string
	}{
		{"below threshold", "20.00", 2, "40.00", "5.00", "45.00"},
		{"above threshold", "20.00", 3, "60.00", "0.00", "60.00"},
		{"exactly threshold", "25.00", 2, "50.00", "5.00", "55.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupServiceTest(t)
			user := env.createUser(t, "quote@example.com")
			product := env.createProduct(t, "quote-item", tc.price, 10, true)
			ctx := context.Background()
			if _, err := env.cart.AddToCart(ctx, userIdentity(user.ID), AddCartItemInput{ProductID: product.ID, Quantity: tc.quantity}); err != nil {
				t.Fatalf("add to cart failed: %v", err)
			}

			quote, err := env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress()})
			if err != nil {
				t.Fatalf("quote failed: %v", err)
			}
			if quote.Subtotal.String() != tc.subtotal || quote.Shipping.String() != tc.shipping || quote.Total.String() != tc.total {
				t.Fatalf("unexpected totals subtotal=%s shipping=%s total=%s", quote.Subtotal, quote.Shipping, quote.Total)
			}
			if quote.Currency != "INR" {
				t.Fatalf("unexpected currency %s", quote.Currency)
			}
		})
	}
}

func TestQuoteCODAllOrNothing(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "quote_cod@example.com")
	eligible := env.createProduct(t, "cod-ok", "10.00", 10, true)
	blocked := env.createProduct(t, "cod-blocked", "10.00", 10, false)
	ctx := context.Background()
	id := userIdentity(user.ID)

	if _, err := env.cart.AddToCart(ctx, id, AddCartItemInput{ProductID: eligible.ID, Quantity: 1}); err != nil {
		t.Fatalf("add eligible failed: %v", err)
	}
	quote, err := env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress()})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.CODAvailable || len(quote.PaymentMethods) != 2 {
		t.Fatalf("cod should be offered: %+v", quote.PaymentMethods)
	}

	if _, err := env.cart.AddToCart(ctx, id, AddCartItemInput{ProductID: blocked.ID, Quantity: 1}); err != nil {
		t.Fatalf("add blocked failed: %v", err)
	}
	quote, err = env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress()})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.CODAvailable {
		t.Fatalf("one ineligible line must disable cod")
	}
	for _, method := range quote.PaymentMethods {
		if method.Code == constants.PaymentMethodCOD {
			t.Fatalf("cod must not be listed")
		}
	}
}

func TestQuoteEmptyCartAndAddress(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "quote_empty@example.com")
	ctx := context.Background()

	if _, err := env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	product := env.createProduct(t, "quote-addr", "10.00", 10, true)
	if _, err := env.cart.AddToCart(ctx, userIdentity(user.ID), AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := env.checkout.Quote(ctx, user.ID, QuoteInput{}); !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("expected ErrAddressInvalid, got %v", err)
	}
	missing := uint(9999)
	if _, err := env.checkout.Quote(ctx, user.ID, QuoteInput{AddressID: &missing}); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestQuoteSavesAddressWhenAsked(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "quote_save@example.com")
	product := env.createProduct(t, "quote-save", "10.00", 10, true)
	ctx := context.Background()
	if _, err := env.cart.AddToCart(ctx, userIdentity(user.ID), AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	quote, err := env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress(), SaveAddress: true})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.SavedAddressID == nil {
		t.Fatalf("expected saved address id")
	}
	reused, err := env.checkout.Quote(ctx, user.ID, QuoteInput{AddressID: quote.SavedAddressID})
	if err != nil {
		t.Fatalf("quote with saved address failed: %v", err)
	}
	if reused.ShippingAddress.City != "Bengaluru" {
		t.Fatalf("unexpected snapshot %+v", reused.ShippingAddress)
	}
}

func TestQuoteInsufficientStock(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "quote_stock@example.com")
	product := env.createProduct(t, "quote-stock", "10.00", 2, true)
	ctx := context.Background()
	if _, err := env.cart.AddToCart(ctx, userIdentity(user.ID), AddCartItemInput{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := env.checkout.Quote(ctx, user.ID, QuoteInput{ShippingAddress: testAddress()}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestShippingFor(t *testing.T) {
	cfg := testConfig().Checkout
	if got := ShippingFor(cfg, decimal.RequireFromString("50.01")); !got.IsZero() {
		t.Fatalf("expected free shipping, got %s", got)
	}
	if got := ShippingFor(cfg, decimal.RequireFromString("49.99")); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected flat fee, got %s", got)
	}
}
