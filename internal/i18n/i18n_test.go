package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleEN,
		"zh-CN,zh;q=0.9":          LocaleZH,
		"zh":                      LocaleZH,
		"en-GB,en;q=0.8":          LocaleEN,
		"fr-FR":                   LocaleEN,
		"de;q=0.9, zh-Hans;q=0.8": LocaleZH,
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Fatalf("NormalizeLocale(%q) want %s got %s", raw, want, got)
		}
	}
}

func TestResolveLocalePrefersExplicitHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?lang=en", nil)
	c.Request.Header.Set("Accept-Language", "en-US")
	c.Request.Header.Set("X-Locale", "zh-CN")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("expected zh-CN, got %s", got)
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleZH, "error.cart_empty"); got != "购物车为空" {
		t.Fatalf("unexpected zh message %q", got)
	}
	if got := T("ja-JP", "error.cart_empty"); got != "Your cart is empty" {
		t.Fatalf("unknown locale should fall back to english, got %q", got)
	}
	if got := T(LocaleEN, "error.no_such_key"); got != "error.no_such_key" {
		t.Fatalf("missing key should echo key, got %q", got)
	}
	if got := Sprintf(LocaleEN, "error.payment_failed", "Card declined"); got != "Payment failed: Card declined" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestTablesHaveSameKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
