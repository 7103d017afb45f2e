package admin

import (
	"strings"

	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateUserRoleRequest 调整角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		RoleType: c.Query("role"),
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.user_fetch_failed")
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// UpdateAdminUserRole 调整用户角色，同时吊销其已签发 token
func (h *Handler) UpdateAdminUserRole(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		shared.RespondServiceError(c, err, "error.user_fetch_failed")
		return
	}
	shared.RequestLog(c).Infow("admin_user_role_updated", "user_id", user.ID, "role", user.RoleType, "operator_id", shared.OptionalUserID(c))
	response.Success(c, user)
}

// GetMyPermissions 当前角色可访问的后台策略（含继承）
func (h *Handler) GetMyPermissions(c *gin.Context) {
	role, _ := c.Get(shared.ContextUserRole)
	roleType, _ := role.(string)
	policies, err := h.AuthzService.GetRolePolicies(roleType)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.permission_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"role": roleType, "policies": policies})
}
