package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdatePartnerStatusRequest 启用/停用推广员
type UpdatePartnerStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListPartners 推广员列表
func (h *Handler) ListPartners(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	var isActive *bool
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		isActive = &parsed
	}
	partners, total, err := h.PartnerService.ListPartners(repository.PartnerListFilter{
		Page:     page,
		PageSize: pageSize,
		IsActive: isActive,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, partners, response.NewPagination(page, pageSize, total))
}

// GetPartner 推广员档案
func (h *Handler) GetPartner(c *gin.Context) {
	partnerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.PartnerService.GetProfile(partnerID)
	if err != nil {
		respondServiceError(c, err, "error.fetch_failed")
		return
	}
	response.Success(c, profile)
}

// UpdatePartnerStatus 启用/停用推广员
func (h *Handler) UpdatePartnerStatus(c *gin.Context) {
	partnerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePartnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	partner, err := h.PartnerService.SetActive(partnerID, *req.IsActive)
	if err != nil {
		respondServiceError(c, err, "error.save_failed")
		return
	}
	response.Success(c, partner)
}

// ListPartnerTransactions 推广员钱包流水
func (h *Handler) ListPartnerTransactions(c *gin.Context) {
	partnerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.PartnerService.ListTransactions(repository.PartnerTransactionListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partnerID,
		Type:      strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}
