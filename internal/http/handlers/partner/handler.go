package partner

import (
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 推广员端接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建推广员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) currentPartner(c *gin.Context) (*models.Partner, bool) {
	userID, ok := handlershared.GetUserID(c)
	if !ok {
		return nil, false
	}
	partner, err := h.PartnerService.GetByUserID(userID)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.profile_missing")
		return nil, false
	}
	return partner, true
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, fallbackKey)
}
