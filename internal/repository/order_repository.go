package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	GetByNumberAndUser(orderNumber string, userID uint) (*models.Order, error)
	GetByUserAndIdempotencyKey(userID uint, key string) (*models.Order, error)
	CountByNumber(orderNumber string) (int64, error)
	ResolveRecipientByOrderID(orderID uint) (Recipient, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	UpdateFieldsIf(id uint, status, paymentStatus string, updates map[string]interface{}) (int64, error)
	ListExpiredPending(paymentMethod string, before time.Time, limit int) ([]uint, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// Recipient 订单通知收件人
type Recipient struct {
	Email string
	Name  string
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项，订单项先于返回写入
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *GormOrderRepository) first(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := query.Preload("Items").First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetByNumber 根据订单号获取订单
func (r *GormOrderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	return r.first(r.db.Where("order_number = ?", orderNumber))
}

// GetByNumberAndUser 获取用户订单，非本人订单视为不存在
func (r *GormOrderRepository) GetByNumberAndUser(orderNumber string, userID uint) (*models.Order, error) {
	return r.first(r.db.Where("order_number = ? AND user_id = ?", orderNumber, userID))
}

// GetByUserAndIdempotencyKey 按幂等键查找已下订单
func (r *GormOrderRepository) GetByUserAndIdempotencyKey(userID uint, key string) (*models.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	return r.first(r.db.Where("user_id = ? AND idempotency_key = ?", userID, key))
}

// CountByNumber 订单号占用检查
func (r *GormOrderRepository) CountByNumber(orderNumber string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ResolveRecipientByOrderID 解析通知收件人，优先使用收货地址邮箱
func (r *GormOrderRepository) ResolveRecipientByOrderID(orderID uint) (Recipient, error) {
	if orderID == 0 {
		return Recipient{}, nil
	}
	var order models.Order
	if err := r.db.Select("id", "user_id", "shipping_address").Where("id = ?", orderID).Take(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Recipient{}, nil
		}
		return Recipient{}, err
	}
	recipient := Recipient{
		Email: strings.TrimSpace(order.ShippingAddress.Email),
		Name:  strings.TrimSpace(order.ShippingAddress.FullName()),
	}
	if recipient.Email != "" && recipient.Name != "" {
		return recipient, nil
	}

	var userRow struct {
		Email    string
		FullName string
	}
	if err := r.db.Model(&models.User{}).
		Select("email", "full_name").
		Where("id = ?", order.UserID).
		Take(&userRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return recipient, nil
		}
		return Recipient{}, err
	}
	if recipient.Email == "" {
		recipient.Email = strings.TrimSpace(userRow.Email)
	}
	if recipient.Name == "" {
		recipient.Name = strings.TrimSpace(userRow.FullName)
	}
	return recipient, nil
}

func applyOrderFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

func (r *GormOrderRepository) list(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := applyOrderFilter(r.db.Model(&models.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByUser 获取用户订单列表（新订单在前）
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return []models.Order{}, 0, nil
	}
	return r.list(filter)
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(filter)
}

// UpdateFields 更新订单字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateFieldsIf 仅当状态仍为预期值时更新，返回影响行数
func (r *GormOrderRepository) UpdateFieldsIf(id uint, status, paymentStatus string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, status, paymentStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListExpiredPending 查询创建时间早于 before 的待支付订单 ID
func (r *GormOrderRepository) ListExpiredPending(paymentMethod string, before time.Time, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []uint
	err := r.db.Model(&models.Order{}).
		Where("status = ? AND payment_status = ? AND payment_method = ? AND created_at < ?",
			constants.OrderStatusPending, constants.PaymentStatusPending, paymentMethod, before).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
