package provider

import (
	"strings"

	"github.com/SyncShire/E-Commerce/internal/authz"
	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/notify"
	"github.com/SyncShire/E-Commerce/internal/payment"
	"github.com/SyncShire/E-Commerce/internal/payment/stripe"
	"github.com/SyncShire/E-Commerce/internal/queue"
	"github.com/SyncShire/E-Commerce/internal/repository"
	"github.com/SyncShire/E-Commerce/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	Cache       *cache.Store
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	ProductRepo     repository.ProductRepository
	CartRepo        repository.CartRepository
	AddressRepo     repository.AddressRepository
	BankAccountRepo repository.BankAccountRepository
	OrderRepo       repository.OrderRepository
	ReturnRepo      repository.ReturnRepository
	CategoryRepo    repository.CategoryRepository
	BrandRepo       repository.BrandRepository
	WishlistRepo    repository.WishlistRepository
	ReviewRepo      repository.ReviewRepository
	AnalyticsRepo   repository.AnalyticsRepository

	// Services
	AuthzService        *authz.Service
	CaptchaService      *service.CaptchaService
	UserAuthService     *service.UserAuthService
	SessionService      *service.SessionService
	ProductService      *service.ProductService
	CartService         *service.CartService
	AddressService      *service.AddressService
	BankAccountService  *service.BankAccountService
	CheckoutService     *service.CheckoutService
	NotificationService *service.NotificationService
	PaymentService      *service.PaymentService
	OrderService        *service.OrderService
	ReturnService       *service.ReturnService
	CatalogService      *service.CatalogService
	WishlistService     *service.WishlistService
	ReviewService       *service.ReviewService
	AnalyticsService    *service.AnalyticsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存，未启用时为 nil，各调用方按降级处理
	store := cache.NewStore(&cfg.Redis)
	if !store.Enabled() {
		logger.Warnw("provider_cache_disabled")
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		Cache:       store,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices(models.DB)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.BankAccountRepo = repository.NewBankAccountRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.AnalyticsRepo = repository.NewAnalyticsRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cfg := c.Config
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo, c.CaptchaService, c.Cache)
	c.SessionService = service.NewSessionService(c.Cache)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.BrandRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CatalogService)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.UserRepo)
	c.AnalyticsService = service.NewAnalyticsService(cfg.Analytics, c.AnalyticsRepo, c.Cache)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.BankAccountService = service.NewBankAccountService(c.BankAccountRepo)
	c.CheckoutService = service.NewCheckoutService(cfg.Checkout, c.CartRepo, c.ProductRepo, c.AddressService)
	c.NotificationService = service.NewNotificationService(c.OrderRepo, c.QueueClient, notify.NewClient(cfg.Email))
	gateway := buildGateway(cfg.Payment)
	c.PaymentService = service.NewPaymentService(service.PaymentServiceOptions{
		Checkout:        cfg.Checkout,
		Order:           cfg.Order,
		ThemeColor:      cfg.Payment.ThemeColor,
		CheckoutService: c.CheckoutService,
		CartService:     c.CartService,
		OrderRepo:       c.OrderRepo,
		ProductRepo:     c.ProductRepo,
		Gateway:         gateway,
		Cache:           c.Cache,
		QueueClient:     c.QueueClient,
		Notification:    c.NotificationService,
	})
	c.OrderService = service.NewOrderService(cfg.Order, c.OrderRepo, c.ProductRepo, c.ReturnRepo, c.NotificationService)
	c.OrderService.SetPaymentGateway(gateway)
	c.ReturnService = service.NewReturnService(c.ReturnRepo)
}

// buildGateway 按配置创建在线支付网关；未配置时返回 nil，在线支付下单会报不可用
func buildGateway(cfg config.PaymentConfig) payment.Gateway {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "stripe":
		gateway, err := stripe.New(stripe.Config{
			SecretKey:      cfg.Stripe.SecretKey,
			PublishableKey: cfg.Stripe.PublishableKey,
			APIBaseURL:     cfg.Stripe.APIBase,
			ThemeColor:     cfg.ThemeColor,
		})
		if err != nil {
			logger.Warnw("provider_payment_gateway_unavailable", "provider", "stripe", "error", err)
			return nil
		}
		return gateway
	case "", "none":
		return nil
	default:
		logger.Warnw("provider_payment_gateway_unknown", "provider", cfg.Provider)
		return nil
	}
}
