package shared

import (
	"strconv"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// GetUserID 读取当前登录用户，缺失时写出 401
func GetUserID(c *gin.Context) (uint, bool) {
	if uid := OptionalUserID(c); uid != 0 {
		return uid, true
	}
	RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
	return 0, false
}

// OptionalUserID 可选鉴权路由读取用户，匿名为 0
func OptionalUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0
	}
	if uid, ok := value.(uint); ok {
		return uid
	}
	return 0
}

// ParamUint 解析路径中的正整数 ID，非法时写出 400
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}
