package public

import (
	"time"

	"github.com/foodhub-next/internal/constants"
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/models"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录返回
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// MeResponse 当前账号信息
type MeResponse struct {
	User     *models.User     `json:"user"`
	Supplier *models.Supplier `json:"supplier,omitempty"`
	Partner  *models.Partner  `json:"partner,omitempty"`
}

// Login 账号登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}

	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// GetMe 当前账号与绑定档案
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := handlershared.GetUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}

	resp := MeResponse{User: user}
	switch user.Role {
	case constants.RoleSupplier:
		supplier, err := h.SupplierService.GetByUserID(user.ID)
		if err != nil {
			respondServiceError(c, err, "error.fetch_failed")
			return
		}
		resp.Supplier = supplier
	case constants.RolePartner:
		partner, err := h.PartnerService.GetByUserID(user.ID)
		if err != nil {
			respondServiceError(c, err, "error.fetch_failed")
			return
		}
		resp.Partner = partner
	}
	response.Success(c, resp)
}

// ChangePassword 修改密码，成功后旧 Token 失效
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := handlershared.GetUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, nil)
}
