package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

var (
	accountNumberPattern = regexp.MustCompile(`^[0-9]{6,20}$`)
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// BankAccountInput 退款账户输入
type BankAccountInput struct {
	BankName          string `json:"bank_name"`
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
}

// BankAccountView 对外展示的退款账户，账号打码
type BankAccountView struct {
	ID                uint      `json:"id"`
	BankName          string    `json:"bank_name"`
	AccountHolderName string    `json:"account_holder_name"`
	AccountNumber     string    `json:"account_number"`
	IFSCCode          string    `json:"ifsc_code"`
	CreatedAt         time.Time `json:"created_at"`
}

func newBankAccountView(row models.BankAccount) BankAccountView {
	return BankAccountView{
		ID:                row.ID,
		BankName:          row.BankName,
		AccountHolderName: row.AccountHolderName,
		AccountNumber:     row.MaskedAccountNumber(),
		IFSCCode:          row.IFSCCode,
		CreatedAt:         row.CreatedAt,
	}
}

// BankAccountService 退款账户
type BankAccountService struct {
	repo repository.BankAccountRepository
}

// NewBankAccountService 创建退款账户服务
func NewBankAccountService(repo repository.BankAccountRepository) *BankAccountService {
	return &BankAccountService{repo: repo}
}

// List 用户退款账户列表
func (s *BankAccountService) List(userID uint) ([]BankAccountView, error) {
	rows, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	views := make([]BankAccountView, 0, len(rows))
	for _, row := range rows {
		views = append(views, newBankAccountView(row))
	}
	return views, nil
}

// Create 新增退款账户
func (s *BankAccountService) Create(userID uint, input BankAccountInput) (*BankAccountView, error) {
	row := models.BankAccount{
		UserID:            userID,
		BankName:          truncateRunes(sanitizeText(input.BankName), 120),
		AccountHolderName: truncateRunes(sanitizeText(input.AccountHolderName), 120),
		AccountNumber:     strings.ReplaceAll(strings.TrimSpace(input.AccountNumber), " ", ""),
		IFSCCode:          strings.ToUpper(strings.TrimSpace(input.IFSCCode)),
	}
	if row.BankName == "" || row.AccountHolderName == "" || !accountNumberPattern.MatchString(row.AccountNumber) {
		return nil, ErrBankAccountInvalid
	}
	if row.IFSCCode != "" && !ifscPattern.MatchString(row.IFSCCode) {
		return nil, ErrBankAccountInvalid
	}
	if err := s.repo.Create(&row); err != nil {
		return nil, wrapStore(err)
	}
	view := newBankAccountView(row)
	return &view, nil
}

// Delete 删除退款账户
func (s *BankAccountService) Delete(userID, id uint) error {
	affected, err := s.repo.Delete(id, userID)
	if err != nil {
		return wrapStore(err)
	}
	if affected == 0 {
		return ErrBankAccountNotFound
	}
	return nil
}
