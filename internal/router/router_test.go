package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type storefront struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:router_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	models.DB = db

	cfg := &config.Config{
		App:     config.AppConfig{Name: "ShopVibe"},
		Server:  config.ServerConfig{Mode: "debug"},
		UserJWT: config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Redis:   config.RedisConfig{Enabled: false, Prefix: "test"},
		Queue:   config.QueueConfig{Enabled: false},
		Security: config.SecurityConfig{
			LoginRateLimit: config.LoginRateLimitConfig{WindowSeconds: 60, MaxAttempts: 5},
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
		Order: config.OrderConfig{ReturnWindowDays: 7},
		Checkout: config.CheckoutConfig{
			Currency:              "INR",
			CurrencySymbol:        "₹",
			FreeShippingThreshold: 50,
			FlatShippingFee:       5,
			InflightTTLSeconds:    30,
		},
		Payment: config.PaymentConfig{Provider: "none"},
	}
	return &storefront{t: t, engine: SetupRouter(cfg, provider.NewContainer(cfg)), db: db}
}

func (s *storefront) do(method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	return w, decodeEnvelope(s.t, w)
}

func (s *storefront) createProduct(slug string, stock int) *models.Product {
	s.t.Helper()
	product := &models.Product{
		Name:          strings.ToUpper(slug),
		Slug:          slug,
		Price:         models.MustMoney("20.00"),
		StockQuantity: stock,
		CODEligible:   true,
		IsActive:      true,
	}
	require.NoError(s.t, s.db.Create(product).Error)
	return product
}

func (s *storefront) register(email string) string {
	s.t.Helper()
	_, resp := s.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "Nila Menon",
	}, nil)
	require.Equal(s.t, 0, resp.StatusCode, resp.Msg)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &auth))
	require.NotEmpty(s.t, auth.Token)
	return auth.Token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthAndNoRoute(t *testing.T) {
	s := newStorefront(t)

	_, resp := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, 0, resp.StatusCode)

	_, resp = s.do(http.MethodGet, "/api/v1/nope", nil, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAnonymousCartKeepsSessionToken(t *testing.T) {
	s := newStorefront(t)
	product := s.createProduct("anon-tee", 10)

	w, resp := s.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	}, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	token := w.Header().Get(constants.HeaderSessionToken)
	require.NotEmpty(t, token)

	w, resp = s.do(http.MethodGet, "/api/v1/cart", nil, map[string]string{constants.HeaderSessionToken: token})
	require.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, token, w.Header().Get(constants.HeaderSessionToken))
	var cart struct {
		Items []json.RawMessage `json:"items"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Count)

	// 新会话看不到别人的购物车
	_, resp = s.do(http.MethodGet, "/api/v1/cart", nil, nil)
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	assert.Empty(t, cart.Items)
}

func TestCheckoutCODFlow(t *testing.T) {
	s := newStorefront(t)
	product := s.createProduct("cod-kurta", 5)
	token := s.register("nila@example.com")
	auth := bearer(token)

	_, resp := s.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	}, auth)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	address := map[string]interface{}{
		"first_name": "Nila",
		"last_name":  "Menon",
		"email":      "nila@example.com",
		"phone":      "+91 90000 11111",
		"line1":      "7 Beach Road",
		"city":       "Kochi",
		"state":      "KL",
		"zip":        "682001",
		"country":    "IN",
	}
	_, resp = s.do(http.MethodPost, "/api/v1/checkout/quote", map[string]interface{}{"shipping_address": address}, auth)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	headers := bearer(token)
	headers[constants.HeaderIdempotencyKey] = "idem-cod-1"
	body := map[string]interface{}{"payment_method": constants.PaymentMethodCOD, "shipping_address": address}
	_, resp = s.do(http.MethodPost, "/api/v1/checkout/orders", body, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var placed struct {
		Order struct {
			OrderNumber string `json:"order_number"`
			Status      string `json:"status"`
		} `json:"order"`
		Replayed bool `json:"replayed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &placed))
	require.NotEmpty(t, placed.Order.OrderNumber)
	assert.Equal(t, constants.OrderStatusProcessing, placed.Order.Status)
	assert.False(t, placed.Replayed)

	// 相同幂等键重放返回同一订单
	_, resp = s.do(http.MethodPost, "/api/v1/checkout/orders", body, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var replay struct {
		Order struct {
			OrderNumber string `json:"order_number"`
		} `json:"order"`
		Replayed bool `json:"replayed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &replay))
	assert.True(t, replay.Replayed)
	assert.Equal(t, placed.Order.OrderNumber, replay.Order.OrderNumber)

	_, resp = s.do(http.MethodGet, "/api/v1/orders", nil, auth)
	require.Equal(t, 0, resp.StatusCode)
	var orders []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	assert.Len(t, orders, 1)

	_, resp = s.do(http.MethodPost, "/api/v1/orders/"+placed.Order.OrderNumber+"/cancel", nil, auth)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var stored models.Product
	require.NoError(t, s.db.First(&stored, product.ID).Error)
	assert.Equal(t, 5, stored.StockQuantity)

	// 其他用户访问按不存在处理
	other := s.register("other@example.com")
	_, resp = s.do(http.MethodGet, "/api/v1/orders/"+placed.Order.OrderNumber, nil, bearer(other))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWidgetOrderWithoutGateway(t *testing.T) {
	s := newStorefront(t)
	product := s.createProduct("widget-bag", 5)
	token := s.register("widget@example.com")

	_, resp := s.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": product.ID, "quantity": 1}, bearer(token))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = s.do(http.MethodPost, "/api/v1/checkout/orders", map[string]interface{}{
		"payment_method":   constants.PaymentMethodWidget,
		"shipping_address": map[string]interface{}{
			"first_name": "W", "last_name": "G", "phone": "1", "line1": "x",
			"city": "Pune", "state": "MH", "zip": "411001", "country": "IN",
		},
	}, bearer(token))
	assert.NotEqual(t, 0, resp.StatusCode)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	s := newStorefront(t)
	customer := s.register("shopper@example.com")

	_, resp := s.do(http.MethodGet, "/api/v1/admin/orders", nil, bearer(customer))
	assert.Equal(t, 403, resp.StatusCode)

	admin := s.loginAdmin("boss@example.com")

	_, resp = s.do(http.MethodGet, "/api/v1/admin/orders", nil, bearer(admin))
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)
	_, resp = s.do(http.MethodGet, "/api/v1/admin/users", nil, bearer(admin))
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = s.do(http.MethodGet, "/api/v1/admin/me/permissions", nil, bearer(admin))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var perms struct {
		Role     string `json:"role"`
		Policies []struct {
			Object string `json:"object"`
			Action string `json:"action"`
		} `json:"policies"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &perms))
	assert.Equal(t, constants.RoleAdmin, perms.Role)
	assert.Len(t, perms.Policies, 6)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newStorefront(t)
	token := s.register("logout@example.com")

	_, resp := s.do(http.MethodGet, "/api/v1/me", nil, bearer(token))
	require.Equal(t, 0, resp.StatusCode)

	_, resp = s.do(http.MethodPost, "/api/v1/auth/logout", nil, bearer(token))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = s.do(http.MethodGet, "/api/v1/me", nil, bearer(token))
	assert.Equal(t, 401, resp.StatusCode)
}

func (s *storefront) loginAdmin(email string) string {
	s.t.Helper()
	s.register(email)
	require.NoError(s.t, s.db.Model(&models.User{}).Where("email = ?", email).Update("role_type", constants.RoleAdmin).Error)
	_, resp := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "secret123",
	}, nil)
	require.Equal(s.t, 0, resp.StatusCode, resp.Msg)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &auth))
	return auth.Token
}

func TestCategoryFilterAndAdminCRUD(t *testing.T) {
	s := newStorefront(t)
	admin := s.loginAdmin("catalog@example.com")

	_, resp := s.do(http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"name":       "Summer Tops",
		"sort_order": 3,
	}, bearer(admin))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var category models.Category
	require.NoError(t, json.Unmarshal(resp.Data, &category))
	assert.Equal(t, "summer-tops", category.Slug)

	tagged := s.createProduct("linen-shirt", 4)
	require.NoError(t, s.db.Model(tagged).Update("category_id", category.ID).Error)
	s.createProduct("wool-scarf", 4)

	_, resp = s.do(http.MethodGet, "/api/v1/public/categories", nil, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(resp.Data, &categories))
	require.Len(t, categories, 1)

	_, resp = s.do(http.MethodGet, "/api/v1/public/products?category=summer-tops", nil, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var products []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "linen-shirt", products[0].Slug)

	_, resp = s.do(http.MethodGet, "/api/v1/public/products?sort=cheapest", nil, nil)
	assert.Equal(t, 400, resp.StatusCode)

	path := fmt.Sprintf("/api/v1/admin/categories/%d", category.ID)
	_, resp = s.do(http.MethodDelete, path, nil, bearer(admin))
	assert.Equal(t, 409, resp.StatusCode)

	customer := s.register("browser@example.com")
	_, resp = s.do(http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Nope"}, bearer(customer))
	assert.Equal(t, 403, resp.StatusCode)
}

func TestWishlistRoutes(t *testing.T) {
	s := newStorefront(t)
	product := s.createProduct("wish-tee", 3)
	path := fmt.Sprintf("/api/v1/wishlist/%d", product.ID)

	_, resp := s.do(http.MethodPost, path, nil, nil)
	assert.Equal(t, 401, resp.StatusCode)

	token := s.register("wisher@example.com")
	for i := 0; i < 2; i++ {
		_, resp = s.do(http.MethodPost, path, nil, bearer(token))
		require.Equal(t, 0, resp.StatusCode, resp.Msg)
	}

	_, resp = s.do(http.MethodGet, "/api/v1/wishlist", nil, bearer(token))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var items []models.WishlistItem
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)

	_, resp = s.do(http.MethodDelete, path, nil, bearer(token))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	_, resp = s.do(http.MethodDelete, path, nil, bearer(token))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAdminAnalyticsOverview(t *testing.T) {
	s := newStorefront(t)
	s.createProduct("kpi-tee", 2)
	admin := s.loginAdmin("numbers@example.com")

	_, resp := s.do(http.MethodGet, "/api/v1/admin/analytics/overview?range=30d&tz=UTC", nil, bearer(admin))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var overview struct {
		Range string `json:"range"`
		KPI   struct {
			OrdersTotal    int64  `json:"orders_total"`
			Revenue        string `json:"revenue"`
			ActiveProducts int64  `json:"active_products"`
		} `json:"kpi"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &overview))
	assert.Equal(t, "30d", overview.Range)
	assert.Equal(t, int64(0), overview.KPI.OrdersTotal)
	assert.Equal(t, "0.00", overview.KPI.Revenue)
	assert.Equal(t, int64(1), overview.KPI.ActiveProducts)

	_, resp = s.do(http.MethodGet, "/api/v1/admin/analytics/trends?range=custom", nil, bearer(admin))
	assert.Equal(t, 400, resp.StatusCode)
}
