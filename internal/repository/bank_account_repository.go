package repository

import (
	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// BankAccountRepository 退款账户数据访问接口
type BankAccountRepository interface {
	ListByUser(userID uint) ([]models.BankAccount, error)
	Create(row *models.BankAccount) error
	Delete(id, userID uint) (int64, error)
}

// GormBankAccountRepository GORM 实现
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository 创建退款账户仓库
func NewBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

func (r *GormBankAccountRepository) ListByUser(userID uint) ([]models.BankAccount, error) {
	var rows []models.BankAccount
	if err := r.db.Where("user_id = ?", userID).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormBankAccountRepository) Create(row *models.BankAccount) error {
	return r.db.Create(row).Error
}

// Delete 仅删除本人账户，返回影响行数
func (r *GormBankAccountRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.BankAccount{})
	return result.RowsAffected, result.Error
}
