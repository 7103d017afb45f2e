package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const profileFieldMaxRunes = 120

var (
	// ErrTokenInvalid token 无效
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenRevoked token 已被吊销
	ErrTokenRevoked = errors.New("token revoked")
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg        *config.Config
	userRepo   repository.UserRepository
	captchaSvc *CaptchaService
	store      *cache.Store
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, captchaSvc *CaptchaService, store *cache.Store) *UserAuthService {
	return &UserAuthService{
		cfg:        cfg,
		userRepo:   userRepo,
		captchaSvc: captchaSvc,
		store:      store,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AuthenticatedUser 鉴权通过后的用户快照
type AuthenticatedUser struct {
	UserID   uint
	Email    string
	RoleType string
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	CaptchaID   string
	CaptchaCode string
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.RoleType,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate 校验 token 并核对版本与账号状态，优先读取鉴权缓存
func (s *UserAuthService) Authenticate(ctx context.Context, tokenString string) (*AuthenticatedUser, error) {
	claims, err := s.ParseUserJWT(tokenString)
	if err != nil {
		return nil, err
	}

	state, hit, cacheErr := s.store.GetUserAuthState(ctx, claims.UserID)
	if cacheErr != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_read_failed", "user_id", claims.UserID, "error", cacheErr)
	}
	if cacheErr != nil || !hit || state == nil {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, wrapStore(err)
		}
		if user == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.BuildUserAuthState(user)
		if err := s.store.SetUserAuthState(ctx, state); err != nil {
			logger.Ctx(ctx).Warnw("user_auth_state_cache_write_failed", "user_id", user.ID, "error", err)
		}
	}

	if state.Status != "" && state.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if claims.TokenVersion != state.TokenVersion || !issuedAfter(claims.IssuedAt, state.TokenInvalidBefore) {
		return nil, ErrTokenRevoked
	}
	return &AuthenticatedUser{
		UserID:   claims.UserID,
		Email:    claims.Email,
		RoleType: state.RoleType,
	}, nil
}

func issuedAfter(issuedAt *jwt.NumericDate, invalidBefore int64) bool {
	if invalidBefore <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Unix() >= invalidBefore
}

// Register 用户注册
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, time.Time, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}
	if s.captchaSvc.RequiredForRegister() {
		if err := s.captchaSvc.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
			return nil, "", time.Time{}, err
		}
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, wrapStore(err)
	}
	if existing != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	fullName := truncateRunes(sanitizeText(input.FullName), profileFieldMaxRunes)
	if fullName == "" {
		fullName = resolveNameFromEmail(email)
	}
	now := time.Now()
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		RoleType:     constants.RoleCustomer,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, wrapStore(err)
	}

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	logger.Ctx(ctx).Infow("user_registered", "user_id", user.ID)
	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, wrapStore(err)
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if user.Status != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Ctx(ctx).Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Logout 提升 token 版本，使已签发 token 全部失效
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return wrapStore(err)
	}
	s.invalidateAuthState(ctx, userID)
	return nil
}

func (s *UserAuthService) invalidateAuthState(ctx context.Context, userID uint) {
	if err := s.store.DelUserAuthState(ctx, userID); err != nil {
		logger.Ctx(ctx).Warnw("user_auth_state_cache_delete_failed", "user_id", userID, "error", err)
	}
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile 更新姓名与电话
func (s *UserAuthService) UpdateProfile(userID uint, fullName, phone *string) (*models.User, error) {
	if fullName == nil && phone == nil {
		return nil, ErrProfileEmpty
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if fullName != nil {
		name := truncateRunes(sanitizeText(*fullName), profileFieldMaxRunes)
		if name == "" {
			return nil, ErrInvalidInput
		}
		user.FullName = name
	}
	if phone != nil {
		user.Phone = truncateRunes(sanitizeText(*phone), 40)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, wrapStore(err)
	}
	return user, nil
}

// ListUsers 管理端用户列表
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.RoleType = strings.ToLower(strings.TrimSpace(filter.RoleType))
	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return users, total, nil
}

// UpdateUserRole 管理端调整角色，同时吊销该用户已签发的 token
func (s *UserAuthService) UpdateUserRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case constants.RoleCustomer, constants.RoleSupport, constants.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.RoleType == role {
		return user, nil
	}
	if err := s.userRepo.UpdateRole(user.ID, role); err != nil {
		return nil, wrapStore(err)
	}
	s.invalidateAuthState(ctx, user.ID)
	logger.Ctx(ctx).Infow("user_role_updated", "user_id", user.ID, "from", user.RoleType, "to", role)
	return s.GetUserByID(user.ID)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

func resolveNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
