package shared

import "strings"

// CaptchaPayload 图形验证码提交载荷
type CaptchaPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Normalize 去除首尾空白
func (p CaptchaPayload) Normalize() CaptchaPayload {
	return CaptchaPayload{
		CaptchaID:   strings.TrimSpace(p.CaptchaID),
		CaptchaCode: strings.TrimSpace(p.CaptchaCode),
	}
}
