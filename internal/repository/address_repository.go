package repository

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 地址簿数据访问接口
type AddressRepository interface {
	ListByUser(userID uint) ([]models.Address, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	CountByUser(userID uint) (int64, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id, userID uint) error
	ClearDefault(userID uint) error
	SetDefault(id, userID uint) error
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// ListByUser 默认地址排在最前
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var rows []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("is_default desc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	var row models.Address
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *GormAddressRepository) CountByUser(userID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.Address{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 全量保存（含 is_default=false）
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

func (r *GormAddressRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{}).Error
}

// ClearDefault 取消该用户全部默认标记
func (r *GormAddressRepository) ClearDefault(userID uint) error {
	return r.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (r *GormAddressRepository) SetDefault(id, userID uint) error {
	return r.db.Model(&models.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_default", true).Error
}
