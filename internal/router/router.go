package router

import (
	"fmt"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/config"
	adminhandlers "github.com/SyncShire/E-Commerce/internal/http/handlers/admin"
	publichandlers "github.com/SyncShire/E-Commerce/internal/http/handlers/public"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/i18n"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/provider"

	"github.com/gin-gonic/gin"
)

const tracerName = "shopvibe/http"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "shopvibe"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(TracingMiddleware(tracerName))
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, response.CodeNotFound, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", publicHandler.Health)

		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.GetProductReviews)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/brands", publicHandler.GetBrands)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.GET("/captcha", publicHandler.GetImageCaptcha)
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(c.Cache, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/logout", userAuth, publicHandler.UserLogout)
		}

		// 购物车（可匿名，匿名身份由 X-Session-Token 维持）
		cart := apiV1.Group("/cart")
		cart.Use(OptionalUserAuthMiddleware(c.UserAuthService))
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PATCH("/items/:id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:id", publicHandler.DeleteCartItem)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PATCH("/me", publicHandler.UpdateCurrentUser)

			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)
			user.POST("/addresses/:id/default", publicHandler.SetDefaultAddress)

			user.GET("/bank-accounts", publicHandler.ListBankAccounts)
			user.POST("/bank-accounts", publicHandler.CreateBankAccount)
			user.DELETE("/bank-accounts/:id", publicHandler.DeleteBankAccount)

			user.POST("/checkout/quote", publicHandler.QuoteCheckout)
			user.POST("/checkout/orders", publicHandler.PlaceOrder)

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:order_no", publicHandler.GetOrder)
			user.POST("/orders/:order_no/payment", publicHandler.ReconcilePayment)
			user.POST("/orders/:order_no/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:order_no/returns", publicHandler.RequestReturn)

			user.GET("/wishlist", publicHandler.ListWishlist)
			user.POST("/wishlist/:product_id", publicHandler.AddWishlistItem)
			user.DELETE("/wishlist/:product_id", publicHandler.RemoveWishlistItem)

			user.POST("/products/:slug/reviews", publicHandler.SubmitProductReview)
		}

		// 管理端（用户 JWT + 角色 RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(userAuth, AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)
			admin.PATCH("/orders/:id/payment-status", adminHandler.UpdateAdminPaymentStatus)

			admin.GET("/returns", adminHandler.GetAdminReturns)
			admin.PATCH("/returns/:id", adminHandler.UpdateAdminReturn)

			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.POST("/products/:id/variants", adminHandler.CreateVariant)
			admin.PUT("/variants/:id", adminHandler.UpdateVariant)

			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
			admin.GET("/brands", adminHandler.GetAdminBrands)
			admin.POST("/brands", adminHandler.CreateBrand)
			admin.PUT("/brands/:id", adminHandler.UpdateBrand)
			admin.DELETE("/brands/:id", adminHandler.DeleteBrand)

			admin.GET("/analytics/overview", adminHandler.GetAnalyticsOverview)
			admin.GET("/analytics/trends", adminHandler.GetAnalyticsTrends)
			admin.GET("/analytics/top-products", adminHandler.GetAnalyticsTopProducts)

			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.PATCH("/users/:id/role", adminHandler.UpdateAdminUserRole)
			admin.GET("/me/permissions", adminHandler.GetMyPermissions)
		}
	}

	return r
}
