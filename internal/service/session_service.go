package service

import (
	"context"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/oklog/ulid/v2"
)

// Identity 购物车/结算的操作身份
type Identity struct {
	Kind   string
	UserID uint
	Token  string
}

// IsUser 是否登录用户
func (i Identity) IsUser() bool {
	return i.Kind == constants.IdentityKindUser && i.UserID != 0
}

// Owner 转换为购物车归属
func (i Identity) Owner() repository.CartOwner {
	if i.IsUser() {
		return repository.CartOwner{UserID: i.UserID}
	}
	return repository.CartOwner{SessionID: i.Token}
}

// SessionService 会话身份解析
type SessionService struct {
	store *cache.Store
}

// NewSessionService 创建会话服务，store 可为 nil
func NewSessionService(store *cache.Store) *SessionService {
	return &SessionService{store: store}
}

// Resolve 登录用户优先；否则复用合法的匿名令牌，缺失或非法时签发新令牌
func (s *SessionService) Resolve(ctx context.Context, userID uint, token string) (Identity, bool) {
	if userID != 0 {
		return Identity{Kind: constants.IdentityKindUser, UserID: userID}, false
	}

	token = strings.TrimSpace(token)
	issued := false
	if _, err := ulid.ParseStrict(token); err != nil {
		token = ulid.Make().String()
		issued = true
	}

	if s != nil && s.store.Enabled() {
		if err := s.store.TouchAnonymousSession(ctx, token); err != nil {
			logger.Ctx(ctx).Warnw("session_register_failed", "error", err)
		}
	}
	return Identity{Kind: constants.IdentityKindAnonymous, Token: token}, issued
}
