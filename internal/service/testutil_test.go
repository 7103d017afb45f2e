package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/payment"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeGateway 记录调用并按预设返回
type fakeGateway struct {
	mu           sync.Mutex
	sessions     []payment.SessionInput
	createErr    error
	verification *payment.PaymentVerification
	verifyErr    error
	cancelled    []string
}

func (g *fakeGateway) CreateSession(ctx context.Context, input payment.SessionInput) (*payment.WidgetSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions = append(g.sessions, input)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.WidgetSession{
		Provider:     "fake",
		ClientSecret: "pi_test_secret",
		PaymentRef:   "pi_test",
		Amount:       input.Amount,
		Currency:     input.Currency,
		OrderNumber:  input.OrderNumber,
		Prefill:      input.Prefill,
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, paymentRef string) (*payment.PaymentVerification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if g.verification != nil {
		return g.verification, nil
	}
	return nil, fmt.Errorf("no verification configured for %s", paymentRef)
}

// Cancel 已扣款的流水不可作废
func (g *fakeGateway) Cancel(ctx context.Context, paymentRef string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verification != nil && g.verification.Succeeded() && g.verification.PaymentRef == paymentRef {
		return fmt.Errorf("payment %s already captured", paymentRef)
	}
	g.cancelled = append(g.cancelled, paymentRef)
	return nil
}

func (g *fakeGateway) succeed(order *models.Order, ref string) {
	amount, _ := payment.ToMinorUnits(order.TotalAmount.Decimal, order.Currency)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verification = &payment.PaymentVerification{
		PaymentRef:  ref,
		Status:      payment.StatusSucceeded,
		Amount:      amount,
		Currency:    order.Currency,
		OrderNumber: order.OrderNumber,
	}
}

type serviceTestEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	gateway     *fakeGateway
	cartRepo    *repository.GormCartRepository
	productRepo *repository.GormProductRepository
	orderRepo   *repository.GormOrderRepository
	cart        *CartService
	addresses   *AddressService
	checkout    *CheckoutService
	payments    *PaymentService
	orders      *OrderService
	returns     *ReturnService
	catalog     *CatalogService
	products    *ProductService
	wishlist    *WishlistService
	reviews     *ReviewService
	analytics   *AnalyticsService
}

func testConfig() *config.Config {
	return &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Order:   config.OrderConfig{ReturnWindowDays: 7},
		Checkout: config.CheckoutConfig{
			Currency:              "INR",
			CurrencySymbol:        "₹",
			FreeShippingThreshold: 50,
			FlatShippingFee:       5,
			InflightTTLSeconds:    30,
		},
		Payment: config.PaymentConfig{ThemeColor: "#102a43"},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
	}
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := testConfig()
	env := &serviceTestEnv{
		db:          db,
		cfg:         cfg,
		gateway:     &fakeGateway{},
		cartRepo:    repository.NewCartRepository(db),
		productRepo: repository.NewProductRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
	}
	returnRepo := repository.NewReturnRepository(db)
	notifications := NewNotificationService(env.orderRepo, nil, nil)
	env.cart = NewCartService(env.cartRepo, env.productRepo)
	env.addresses = NewAddressService(repository.NewAddressRepository(db))
	env.checkout = NewCheckoutService(cfg.Checkout, env.cartRepo, env.productRepo, env.addresses)
	env.payments = NewPaymentService(PaymentServiceOptions{
		Checkout:        cfg.Checkout,
		Order:           cfg.Order,
		ThemeColor:      cfg.Payment.ThemeColor,
		CheckoutService: env.checkout,
		CartService:     env.cart,
		OrderRepo:       env.orderRepo,
		ProductRepo:     env.productRepo,
		Gateway:         env.gateway,
		Notification:    notifications,
	})
	env.orders = NewOrderService(cfg.Order, env.orderRepo, env.productRepo, returnRepo, notifications)
	env.orders.SetPaymentGateway(env.gateway)
	env.returns = NewReturnService(returnRepo)
	env.catalog = NewCatalogService(repository.NewCategoryRepository(db), repository.NewBrandRepository(db))
	env.products = NewProductService(env.productRepo, env.catalog)
	env.wishlist = NewWishlistService(repository.NewWishlistRepository(db), env.productRepo)
	env.reviews = NewReviewService(repository.NewReviewRepository(db), env.productRepo, repository.NewUserRepository(db))
	env.analytics = NewAnalyticsService(config.AnalyticsConfig{LowStockThreshold: 5, TopProductsLimit: 5}, repository.NewAnalyticsRepository(db), nil)
	return env
}

func (env *serviceTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Asha Rao",
		RoleType:     constants.RoleCustomer,
		Status:       constants.UserStatusActive,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (env *serviceTestEnv) createProduct(t *testing.T, slug, price string, stock int, cod bool, sizes ...string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          strings.ToUpper(slug),
		Slug:          slug,
		Price:         models.MustMoney(price),
		StockQuantity: stock,
		Sizes:         models.StringArray(sizes),
		CODEligible:   true,
		IsActive:      true,
	}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !cod {
		// gorm 对零值 bool 使用默认值，需显式更新
		if err := env.db.Model(product).Update("cod_eligible", false).Error; err != nil {
			t.Fatalf("update cod flag failed: %v", err)
		}
		product.CODEligible = false
	}
	return product
}

func userIdentity(userID uint) Identity {
	return Identity{Kind: constants.IdentityKindUser, UserID: userID}
}

func testAddress() *AddressInput {
	return &AddressInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
		Line1:     "12 MG Road",
		City:      "Bengaluru",
		State:     "KA",
		Zip:       "560001",
		Country:   "IN",
	}
}

func (env *serviceTestEnv) reloadOrder(t *testing.T, id uint) *models.Order {
	t.Helper()
	order, err := env.orderRepo.GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order
}

func (env *serviceTestEnv) productStock(t *testing.T, id uint) int {
	t.Helper()
	var product models.Product
	if err := env.db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.StockQuantity
}
