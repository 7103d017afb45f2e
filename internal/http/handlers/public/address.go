package public

import (
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAddresses 地址簿，默认地址在前
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(c.Request.Context(), uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req service.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, err := h.AddressService.Create(c.Request.Context(), uid, req)
	if err != nil {
		shared.RespondServiceError(c, err, "error.address_save_failed")
		return
	}
	response.Success(c, address)
}

// UpdateAddress 修改地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, err := h.AddressService.Update(c.Request.Context(), uid, id, req)
	if err != nil {
		shared.RespondServiceError(c, err, "error.address_save_failed")
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址，删除默认地址时自动提升最新地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(c.Request.Context(), uid, id); err != nil {
		shared.RespondServiceError(c, err, "error.address_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetDefaultAddress 设为默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.SetDefault(c.Request.Context(), uid, id); err != nil {
		shared.RespondServiceError(c, err, "error.address_save_failed")
		return
	}
	response.Success(c, gin.H{"default_address_id": id})
}

// ListBankAccounts 退款账户列表
func (h *Handler) ListBankAccounts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	accounts, err := h.BankAccountService.List(uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, accounts)
}

// CreateBankAccount 新增退款账户
func (h *Handler) CreateBankAccount(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req service.BankAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	account, err := h.BankAccountService.Create(uid, req)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, account)
}

// DeleteBankAccount 删除退款账户
func (h *Handler) DeleteBankAccount(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.BankAccountService.Delete(uid, id); err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
