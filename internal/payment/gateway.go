// Package payment 定义托管支付组件的网关接口与金额换算。
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrAmountInvalid      = errors.New("payment amount invalid")
)

// 支付组件状态
const (
	StatusSucceeded = "succeeded"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {},
	"CLP": {},
	"DJF": {},
	"GNF": {},
	"JPY": {},
	"KMF": {},
	"KRW": {},
	"MGA": {},
	"PYG": {},
	"RWF": {},
	"UGX": {},
	"VND": {},
	"VUV": {},
	"XAF": {},
	"XOF": {},
	"XPF": {},
}

// Prefill 组件预填的付款人信息
type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SessionInput 创建支付会话输入，金额为最小货币单位
type SessionInput struct {
	OrderNumber    string
	Amount         int64
	Currency       string
	Prefill        Prefill
	Metadata       map[string]string
	IdempotencyKey string
}

// WidgetSession 前端打开支付组件所需参数
type WidgetSession struct {
	Provider       string  `json:"provider"`
	PublishableKey string  `json:"publishable_key"`
	ClientSecret   string  `json:"client_secret"`
	PaymentRef     string  `json:"payment_ref"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	OrderNumber    string  `json:"order_number"`
	Prefill        Prefill `json:"prefill"`
	ThemeColor     string  `json:"theme_color"`
}

// PaymentVerification 服务端核验结果
type PaymentVerification struct {
	PaymentRef  string
	Status      string
	Amount      int64
	Currency    string
	OrderNumber string
}

// Succeeded 是否已成功扣款
func (v *PaymentVerification) Succeeded() bool {
	return v != nil && v.Status == StatusSucceeded
}

// Gateway 托管支付组件网关
type Gateway interface {
	CreateSession(ctx context.Context, input SessionInput) (*WidgetSession, error)
	Verify(ctx context.Context, paymentRef string) (*PaymentVerification, error)
	// Cancel 作废未完成的支付，已扣款时返回错误
	Cancel(ctx context.Context, paymentRef string) error
}

// CurrencyScale 币种最小单位的小数位数
func CurrencyScale(currency string) int32 {
	upper := strings.ToUpper(strings.TrimSpace(currency))
	if _, ok := zeroDecimalCurrencies[upper]; ok {
		return 0
	}
	return 2
}

// ToMinorUnits 换算为最小货币单位，四舍五入（正数即 half-up）
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrAmountInvalid)
	}
	return amount.Shift(CurrencyScale(currency)).Round(0).IntPart(), nil
}

// FromMinorUnits 最小货币单位还原为金额
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-CurrencyScale(currency))
}
