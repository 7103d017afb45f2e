package repository

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// ReturnRepository 退货申请数据访问接口
type ReturnRepository interface {
	Create(row *models.ReturnRequest) error
	GetByID(id uint) (*models.ReturnRequest, error)
	ListAdmin(filter ReturnListFilter) ([]models.ReturnRequest, int64, error)
	Update(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormReturnRepository
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnRepository) WithTx(tx *gorm.DB) *GormReturnRepository {
	if tx == nil {
		return r
	}
	return &GormReturnRepository{db: tx}
}

func (r *GormReturnRepository) Create(row *models.ReturnRequest) error {
	return r.db.Create(row).Error
}

// GetByID 含关联订单
func (r *GormReturnRepository) GetByID(id uint) (*models.ReturnRequest, error) {
	var row models.ReturnRequest
	if err := r.db.Preload("Order").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListAdmin 管理端退货列表
func (r *GormReturnRepository) ListAdmin(filter ReturnListFilter) ([]models.ReturnRequest, int64, error) {
	query := r.db.Model(&models.ReturnRequest{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReturnRequest
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Order").Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormReturnRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.ReturnRequest{}).Where("id = ?", id).Updates(updates).Error
}
