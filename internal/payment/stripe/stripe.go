// Package stripe 基于 PaymentIntents 的托管支付组件网关。
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/payment"

	stripeapi "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

const providerName = "stripe"

var (
	ErrConfigInvalid   = errors.New("stripe config invalid")
	ErrRequestFailed   = errors.New("stripe request failed")
	ErrResponseInvalid = errors.New("stripe response invalid")
)

type paymentIntentAPI interface {
	New(params *stripeapi.PaymentIntentParams) (*stripeapi.PaymentIntent, error)
	Get(id string, params *stripeapi.PaymentIntentParams) (*stripeapi.PaymentIntent, error)
	Cancel(id string, params *stripeapi.PaymentIntentCancelParams) (*stripeapi.PaymentIntent, error)
}

// Config Stripe 配置
type Config struct {
	SecretKey      string
	PublishableKey string
	APIBaseURL     string
	ThemeColor     string
}

func (c *Config) normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.PublishableKey = strings.TrimSpace(c.PublishableKey)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.ThemeColor = strings.TrimSpace(c.ThemeColor)
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if cfg.SecretKey == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if cfg.PublishableKey == "" {
		return fmt.Errorf("%w: publishable_key is required", ErrConfigInvalid)
	}
	return nil
}

// Gateway Stripe 网关实现
type Gateway struct {
	cfg     Config
	intents paymentIntentAPI
}

// New 创建网关；APIBaseURL 非空时用于指向 stripe-mock 等兼容服务
func New(cfg Config) (*Gateway, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	var backends *stripeapi.Backends
	if cfg.APIBaseURL != "" {
		backends = &stripeapi.Backends{
			API: stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
				URL: stripeapi.String(cfg.APIBaseURL),
			}),
			Connect: stripeapi.GetBackend(stripeapi.ConnectBackend),
			Uploads: stripeapi.GetBackend(stripeapi.UploadsBackend),
		}
	}
	sc := client.New(cfg.SecretKey, backends)
	return newWithAPI(cfg, sc.PaymentIntents), nil
}

func newWithAPI(cfg Config, intents paymentIntentAPI) *Gateway {
	cfg.normalize()
	return &Gateway{cfg: cfg, intents: intents}
}

// CreateSession 创建 PaymentIntent 并返回组件参数
func (g *Gateway) CreateSession(ctx context.Context, input payment.SessionInput) (*payment.WidgetSession, error) {
	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order_number is required", ErrConfigInvalid)
	}
	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	if input.Amount <= 0 {
		return nil, payment.ErrAmountInvalid
	}

	params := &stripeapi.PaymentIntentParams{
		Amount:      stripeapi.Int64(input.Amount),
		Currency:    stripeapi.String(currency),
		Description: stripeapi.String("Order " + orderNumber),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}
	params.Context = ctx
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if email := strings.TrimSpace(input.Prefill.Email); email != "" {
		params.ReceiptEmail = stripeapi.String(email)
	}
	params.AddMetadata("order_number", orderNumber)
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", ErrRequestFailed, err)
	}
	if intent == nil || strings.TrimSpace(intent.ID) == "" || strings.TrimSpace(intent.ClientSecret) == "" {
		return nil, ErrResponseInvalid
	}

	return &payment.WidgetSession{
		Provider:       providerName,
		PublishableKey: g.cfg.PublishableKey,
		ClientSecret:   intent.ClientSecret,
		PaymentRef:     intent.ID,
		Amount:         intent.Amount,
		Currency:       strings.ToUpper(string(intent.Currency)),
		OrderNumber:    orderNumber,
		Prefill:        input.Prefill,
		ThemeColor:     g.cfg.ThemeColor,
	}, nil
}

// Verify 查询 PaymentIntent 状态与金额
func (g *Gateway) Verify(ctx context.Context, paymentRef string) (*payment.PaymentVerification, error) {
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return nil, fmt.Errorf("%w: payment ref is required", ErrConfigInvalid)
	}
	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.intents.Get(paymentRef, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get payment intent: %v", ErrRequestFailed, err)
	}
	if intent == nil {
		return nil, ErrResponseInvalid
	}

	amount := intent.AmountReceived
	if amount == 0 {
		amount = intent.Amount
	}
	return &payment.PaymentVerification{
		PaymentRef:  intent.ID,
		Status:      mapPaymentIntentStatus(intent.Status),
		Amount:      amount,
		Currency:    strings.ToUpper(string(intent.Currency)),
		OrderNumber: intent.Metadata["order_number"],
	}, nil
}

// Cancel 作废未完成的 PaymentIntent，已作废视为成功
func (g *Gateway) Cancel(ctx context.Context, paymentRef string) error {
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return fmt.Errorf("%w: payment ref is required", ErrConfigInvalid)
	}
	params := &stripeapi.PaymentIntentCancelParams{
		CancellationReason: stripeapi.String("abandoned"),
	}
	params.Context = ctx

	intent, err := g.intents.Cancel(paymentRef, params)
	if err != nil {
		return fmt.Errorf("%w: cancel payment intent: %v", ErrRequestFailed, err)
	}
	if intent == nil || intent.Status != stripeapi.PaymentIntentStatusCanceled {
		return ErrResponseInvalid
	}
	return nil
}

func mapPaymentIntentStatus(status stripeapi.PaymentIntentStatus) string {
	switch status {
	case stripeapi.PaymentIntentStatusSucceeded:
		return payment.StatusSucceeded
	case stripeapi.PaymentIntentStatusCanceled, stripeapi.PaymentIntentStatusRequiresPaymentMethod:
		return payment.StatusFailed
	default:
		return payment.StatusPending
	}
}
