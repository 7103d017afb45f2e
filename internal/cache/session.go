package cache

import (
	"context"
	"time"
)

const anonymousSessionTTL = 30 * 24 * time.Hour

func anonymousSessionKey(token string) string {
	return "session:" + token
}

// TouchAnonymousSession 登记或续期匿名会话
func (s *Store) TouchAnonymousSession(ctx context.Context, token string) error {
	if !s.Enabled() || token == "" {
		return nil
	}
	return s.client.Set(ctx, s.key(anonymousSessionKey(token)), time.Now().Unix(), anonymousSessionTTL).Err()
}

// AnonymousSessionKnown 判断匿名会话是否登记过
func (s *Store) AnonymousSessionKnown(ctx context.Context, token string) (bool, error) {
	if !s.Enabled() || token == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, s.key(anonymousSessionKey(token))).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
