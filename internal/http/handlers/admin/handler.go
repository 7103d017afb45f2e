package admin

import "github.com/SyncShire/E-Commerce/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：路由层已完成 JWT 与 RBAC 校验，处理器不再判定角色。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
