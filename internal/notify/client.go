// Package notify 调用外部邮件函数端点发送事务邮件。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/config"
)

const defaultTimeout = 10 * time.Second

var (
	ErrNotConfigured = errors.New("email endpoint not configured")
	ErrSendFailed    = errors.New("email send failed")
)

// Message 邮件函数端点请求体
type Message struct {
	Type string                 `json:"type"`
	To   string                 `json:"to"`
	Data map[string]interface{} `json:"data"`
}

// Result 端点返回，失败或无返回时为 nil
type Result struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Client 邮件端点客户端
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建客户端，未启用或缺少端点时返回 nil
func NewClient(cfg config.EmailConfig) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !cfg.Enabled || endpoint == "" {
		return nil
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled 是否可发送
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

// Send 发送邮件
func (c *Client) Send(ctx context.Context, emailType, to string, data map[string]interface{}) (*Result, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("%w: recipient is empty", ErrSendFailed)
	}
	body, err := json.Marshal(Message{Type: emailType, To: to, Data: data})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil
	}
	return &result, nil
}
