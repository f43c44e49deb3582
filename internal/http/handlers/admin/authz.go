package admin

import (
	"errors"
	"strings"

	"github.com/foodhub-next/internal/authz"
	"github.com/foodhub-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PolicyRequest 授权策略请求
type PolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.role_invalid", err)
		return
	}
	response.Success(c, policies)
}

// GetAuthzUserRoles 账号角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, roles)
}

// GrantAuthzPolicy 为角色追加策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_granted",
		"admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	adminID, ok := operatorID(c)
	if !ok {
		return
	}
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		if errors.Is(err, authz.ErrImmutablePolicy) {
			respondError(c, response.CodeForbidden, "error.policy_immutable", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.validation_failed", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_revoked",
		"admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}
