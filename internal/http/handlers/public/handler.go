package public

import "github.com/SyncShire/E-Commerce/internal/provider"

// Handler 前台接口处理器入口
// 说明：该处理器用于公开、购物车（可匿名）与登录用户 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
