package service

import (
	"sort"

	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

type stockKey struct {
	ProductID uint
	VariantID uint
}

type stockLine struct {
	stockKey
	Quantity int
}

// summarizeStockItems 按 (商品, 规格) 汇总数量，顺序稳定以减少锁顺序差异
func summarizeStockItems(items []models.OrderItem) []stockLine {
	totals := make(map[stockKey]int)
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			continue
		}
		key := stockKey{ProductID: item.ProductID}
		if item.VariantID != nil {
			key.VariantID = *item.VariantID
		}
		totals[key] += item.Quantity
	}
	lines := make([]stockLine, 0, len(totals))
	for key, qty := range totals {
		lines = append(lines, stockLine{stockKey: key, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].VariantID < lines[j].VariantID
	})
	return lines
}

func (l stockLine) variantID() *uint {
	if l.VariantID == 0 {
		return nil
	}
	id := l.VariantID
	return &id
}

// consumeStockByItems 确认时扣减库存（下限为 0）
func consumeStockByItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	for _, line := range summarizeStockItems(items) {
		if err := productRepo.DeductStock(line.ProductID, line.variantID(), line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// releaseStockByItems 取消时回补库存
func releaseStockByItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	for _, line := range summarizeStockItems(items) {
		if err := productRepo.RestoreStock(line.ProductID, line.variantID(), line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
