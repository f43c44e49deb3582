package admin

import (
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest 创建账号请求
// role=supplier 时需填写联系方式；role=partner 时 promo_code 为空则自动生成。
type CreateUserRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	DisplayName     string `json:"display_name"`
	Role            string `json:"role" binding:"required"`
	SupplierPhone   string `json:"supplier_phone"`
	SupplierAddress string `json:"supplier_address"`
	PromoCode       string `json:"promo_code"`
}

// UpdateUserStatusRequest 启用/禁用账号
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListUsers 账号列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	users, total, err := h.AccountService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// CreateUser 创建账号及对应档案
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	created, err := h.AccountService.CreateAccount(service.CreateAccountInput{
		Username:        req.Username,
		Password:        req.Password,
		DisplayName:     req.DisplayName,
		Role:            req.Role,
		SupplierPhone:   req.SupplierPhone,
		SupplierAddress: req.SupplierAddress,
		PromoCode:       req.PromoCode,
	})
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, created)
}

// UpdateUserStatus 启用/禁用账号
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if userID == adminID {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return
	}
	user, err := h.AccountService.SetUserStatus(userID, req.Status)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, user)
}
