package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// AddressInput 地址输入
type AddressInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText 去除标签并裁剪空白；存储原文，转义交给展示端
func sanitizeText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(strings.TrimSpace(raw))))
}

// normalize 清洗并校验必填字段
func (in AddressInput) normalize() (AddressInput, error) {
	out := AddressInput{
		FirstName: sanitizeText(in.FirstName),
		LastName:  sanitizeText(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     sanitizeText(in.Phone),
		Line1:     sanitizeText(in.Line1),
		Line2:     sanitizeText(in.Line2),
		City:      sanitizeText(in.City),
		State:     sanitizeText(in.State),
		Zip:       sanitizeText(in.Zip),
		Country:   sanitizeText(in.Country),
		IsDefault: in.IsDefault,
	}
	for _, required := range []string{out.FirstName, out.LastName, out.Phone, out.Line1, out.City, out.State, out.Zip, out.Country} {
		if required == "" {
			return AddressInput{}, ErrAddressInvalid
		}
	}
	if out.Email != "" {
		if _, err := normalizeEmail(out.Email); err != nil {
			return AddressInput{}, ErrAddressInvalid
		}
	}
	return out, nil
}

// Snapshot 转为订单地址快照
func (in AddressInput) Snapshot() models.AddressSnapshot {
	return models.AddressSnapshot{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Line1:     in.Line1,
		Line2:     in.Line2,
		City:      in.City,
		State:     in.State,
		Zip:       in.Zip,
		Country:   in.Country,
	}
}

func (in AddressInput) apply(row *models.Address) {
	row.FirstName = in.FirstName
	row.LastName = in.LastName
	row.Email = in.Email
	row.Phone = in.Phone
	row.Line1 = in.Line1
	row.Line2 = in.Line2
	row.City = in.City
	row.State = in.State
	row.Zip = in.Zip
	row.Country = in.Country
}

// AddressService 地址簿服务，每个用户至多一个默认地址
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List 默认地址在前
func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	rows, err := s.addressRepo.ListByUser(userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return rows, nil
}

// Get 获取本人地址
func (s *AddressService) Get(ctx context.Context, userID, id uint) (*models.Address, error) {
	row, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if row == nil {
		return nil, ErrAddressNotFound
	}
	return row, nil
}

// Create 新增地址；首个地址或显式设为默认时清除其他默认
func (s *AddressService) Create(ctx context.Context, userID uint, input AddressInput) (*models.Address, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	row := &models.Address{UserID: userID}
	normalized.apply(row)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		count, err := repo.CountByUser(userID)
		if err != nil {
			return err
		}
		makeDefault := normalized.IsDefault || count == 0
		if makeDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		if err := repo.Create(row); err != nil {
			return err
		}
		if makeDefault {
			// is_default 零值写入依赖显式更新
			if err := repo.SetDefault(row.ID, userID); err != nil {
				return err
			}
			row.IsDefault = true
		}
		return nil
	})
	if err != nil {
		return nil, wrapStore(err)
	}
	return row, nil
}

// Update 修改地址
func (s *AddressService) Update(ctx context.Context, userID, id uint, input AddressInput) (*models.Address, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	var row *models.Address
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.GetByIDAndUser(id, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAddressNotFound
		}
		normalized.apply(existing)
		if normalized.IsDefault && !existing.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
			existing.IsDefault = true
		}
		if err := repo.Update(existing); err != nil {
			return err
		}
		row = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return nil, err
		}
		return nil, wrapStore(err)
	}
	return row, nil
}

// Delete 删除地址；删除默认地址时将最早的地址提升为默认
func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.GetByIDAndUser(id, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAddressNotFound
		}
		if err := repo.Delete(id, userID); err != nil {
			return err
		}
		if !existing.IsDefault {
			return nil
		}
		rest, err := repo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(rest) > 0 {
			return repo.SetDefault(rest[0].ID, userID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return err
		}
		return wrapStore(err)
	}
	return nil
}

// SetDefault 设为默认：先清除再设置，同一事务内完成
func (s *AddressService) SetDefault(ctx context.Context, userID, id uint) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.GetByIDAndUser(id, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAddressNotFound
		}
		if err := repo.ClearDefault(userID); err != nil {
			return err
		}
		return repo.SetDefault(id, userID)
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return err
		}
		return wrapStore(err)
	}
	return nil
}
