package main

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

type seedVariant struct {
	name  string
	sku   string
	price string
	stock int
}

type seedProduct struct {
	product  models.Product
	noCOD    bool
	variants []seedVariant
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	created := 0
	for _, item := range catalog() {
		ok, err := seed(models.DB, item)
		if err != nil {
			logger.Warnw("seed_product_failed", "slug", item.product.Slug, "error", err)
			continue
		}
		if ok {
			created++
			logger.Infow("seed_product_created", "slug", item.product.Slug)
		} else {
			logger.Infow("seed_product_exists", "slug", item.product.Slug)
		}
	}
	logger.Infow("seed_done", "created", created)
}

// seed 按 slug 幂等写入商品与规格
func seed(db *gorm.DB, item seedProduct) (bool, error) {
	var existing models.Product
	err := db.Unscoped().Where("slug = ?", item.product.Slug).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, db.Transaction(func(tx *gorm.DB) error {
		product := item.product
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if item.noCOD {
			// 零值 bool 不会覆盖列默认值
			if err := tx.Model(&product).Update("cod_eligible", false).Error; err != nil {
				return err
			}
		}
		for _, v := range item.variants {
			variant := models.ProductVariant{
				ProductID:     product.ID,
				Name:          v.name,
				SKU:           v.sku,
				StockQuantity: v.stock,
				IsActive:      true,
			}
			if v.price != "" {
				price := models.MustMoney(v.price)
				variant.Price = &price
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func catalog() []seedProduct {
	compare := models.MustMoney("59.00")
	return []seedProduct{
		{
			product: models.Product{
				Slug:          "linen-kurta",
				Name:          "Linen Kurta",
				Description:   "Breathable handloom linen, relaxed fit.",
				Price:         models.MustMoney("39.00"),
				ComparePrice:  &compare,
				StockQuantity: 40,
				Sizes:         models.StringArray{"S", "M", "L", "XL"},
				Images:        models.StringArray{"https://images.unsplash.com/photo-1602810318383-e386cc2a3ccf?w=800"},
				CODEligible:   true,
				IsActive:      true,
			},
		},
		{
			product: models.Product{
				Slug:          "block-print-scarf",
				Name:          "Block Print Scarf",
				Description:   "Hand block printed cotton scarf.",
				Price:         models.MustMoney("14.50"),
				StockQuantity: 120,
				Images:        models.StringArray{"https://images.unsplash.com/photo-1520903920243-00d872a2d1c9?w=800"},
				CODEligible:   true,
				IsActive:      true,
			},
		},
		{
			product: models.Product{
				Slug:          "leather-tote",
				Name:          "Leather Tote",
				Description:   "Vegetable tanned leather, made to order.",
				Price:         models.MustMoney("120.00"),
				StockQuantity: 10,
				Images:        models.StringArray{"https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=800"},
				IsActive:      true,
			},
			noCOD: true,
			variants: []seedVariant{
				{name: "Tan", sku: "TOTE-TAN", stock: 6},
				{name: "Black", sku: "TOTE-BLK", price: "128.00", stock: 4},
			},
		},
	}
}
