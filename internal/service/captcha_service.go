package service

import (
	"strings"
	"sync"
	"time"

	"github.com/SyncShire/E-Commerce/internal/config"

	"github.com/mojocn/base64Captcha"
)

const (
	captchaAlphabet      = "23456789abcdefghjkmnpqrstuvwxyz"
	captchaMaxStore      = 10240
	captchaNoiseCount    = 2
	defaultCaptchaLength = 5
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 注册图形验证码
type CaptchaService struct {
	cfg config.CaptchaConfig

	once  sync.Once
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// RequiredForRegister 注册是否需要验证码
func (s *CaptchaService) RequiredForRegister() bool {
	return s != nil && s.cfg.Register
}

func (s *CaptchaService) imageStore() base64Captcha.Store {
	s.once.Do(func() {
		expire := time.Duration(s.cfg.ExpireSeconds) * time.Second
		if expire <= 0 {
			expire = 5 * time.Minute
		}
		s.store = base64Captcha.NewMemoryStore(captchaMaxStore, expire)
	})
	return s.store
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	length := s.cfg.Length
	if length <= 0 {
		length = defaultCaptchaLength
	}
	width, height := s.cfg.Width, s.cfg.Height
	if width <= 0 {
		width = 240
	}
	if height <= 0 {
		height = 80
	}
	driver := base64Captcha.NewDriverString(
		height,
		width,
		captchaNoiseCount,
		base64Captcha.OptionShowHollowLine,
		length,
		captchaAlphabet,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.imageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验并销毁验证码
func (s *CaptchaService) Verify(captchaID, code string) error {
	captchaID = strings.TrimSpace(captchaID)
	code = strings.ToLower(strings.TrimSpace(code))
	if captchaID == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.imageStore().Verify(captchaID, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}
