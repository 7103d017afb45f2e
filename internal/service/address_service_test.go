package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/models"
)

func countDefaults(t *testing.T, env *serviceTestEnv, userID uint) int64 {
	t.Helper()
	var count int64
	if err := env.db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&count).Error; err != nil {
		t.Fatalf("count defaults failed: %v", err)
	}
	return count
}

func TestAddressSingleDefault(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "address_default@example.com")
	ctx := context.Background()

	first, err := env.addresses.Create(ctx, user.ID, *testAddress())
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if !first.IsDefault {
		t.Fatalf("first address should become default")
	}

	input := *testAddress()
	input.Line1 = "44 Residency Road"
	input.IsDefault = true
	second, err := env.addresses.Create(ctx, user.ID, input)
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if got := countDefaults(t, env, user.ID); got != 1 {
		t.Fatalf("expected exactly one default, got %d", got)
	}

	if err := env.addresses.SetDefault(ctx, user.ID, first.ID); err != nil {
		t.Fatalf("set default failed: %v", err)
	}
	if got := countDefaults(t, env, user.ID); got != 1 {
		t.Fatalf("expected exactly one default after switch, got %d", got)
	}

	update := *testAddress()
	update.IsDefault = true
	if _, err := env.addresses.Update(ctx, user.ID, second.ID, update); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := countDefaults(t, env, user.ID); got != 1 {
		t.Fatalf("expected exactly one default after update, got %d", got)
	}

	if err := env.addresses.Delete(ctx, user.ID, second.ID); err != nil {
		t.Fatalf("delete default failed: %v", err)
	}
	rows, err := env.addresses.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsDefault {
		t.Fatalf("remaining address should be promoted to default: %+v", rows)
	}
}

func TestAddressValidationAndOwnership(t *testing.T) {
	env := setupServiceTest(t)
	owner := env.createUser(t, "address_owner@example.com")
	other := env.createUser(t, "address_other@example.com")
	ctx := context.Background()

	missing := *testAddress()
	missing.City = "  "
	if _, err := env.addresses.Create(ctx, owner.ID, missing); !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("expected ErrAddressInvalid, got %v", err)
	}

	tagged := *testAddress()
	tagged.Line2 = "<script>alert(1)</script>Flat 3"
	row, err := env.addresses.Create(ctx, owner.ID, tagged)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if row.Line2 != "Flat 3" {
		t.Fatalf("expected sanitised line2, got %q", row.Line2)
	}

	if _, err := env.addresses.Get(ctx, other.ID, row.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign address should be hidden, got %v", err)
	}
	if err := env.addresses.Delete(ctx, other.ID, row.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign delete should fail, got %v", err)
	}
}

func TestAddressKeepsLiteralText(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "obrien@example.com")
	ctx := context.Background()

	input := *testAddress()
	input.LastName = "O'Brien"
	input.Line1 = "Flat 3 & 4, M.G. Road"
	input.Line2 = "<b>Near \"Cafe\"</b>"
	created, err := env.addresses.Create(ctx, user.ID, input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 重复编辑不应累积转义
	for i := 0; i < 2; i++ {
		edit := *testAddress()
		edit.LastName = created.LastName
		edit.Line1 = created.Line1
		edit.Line2 = created.Line2
		if created, err = env.addresses.Update(ctx, user.ID, created.ID, edit); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}

	var stored models.Address
	if err := env.db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.LastName != "O'Brien" {
		t.Fatalf("last name mangled: %q", stored.LastName)
	}
	if stored.Line1 != "Flat 3 & 4, M.G. Road" {
		t.Fatalf("line1 mangled: %q", stored.Line1)
	}
	if stored.Line2 != "Near \"Cafe\"" {
		t.Fatalf("tags should be stripped, got %q", stored.Line2)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"  O'Brien ":                      "O'Brien",
		"3 & 4":                           "3 & 4",
		"<script>alert(1)</script>Hi":     "Hi",
		"Size <b>M</b> too small":         "Size M too small",
		"already &amp; escaped":           "already & escaped",
		"Card declined: \"insufficient\"": "Card declined: \"insufficient\"",
	}
	for input, want := range cases {
		if got := sanitizeText(input); got != want {
			t.Fatalf("sanitize %q want %q got %q", input, want, got)
		}
	}
}
