package supplier

import (
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 供应商端接口处理器入口
// 说明：所有接口按当前登录账号绑定的供应商档案限定数据范围。
type Handler struct {
	*provider.Container
}

// New 创建供应商处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// currentSupplier 读取当前账号绑定的供应商，失败时已写入响应
func (h *Handler) currentSupplier(c *gin.Context) (*models.Supplier, bool) {
	userID, ok := handlershared.GetUserID(c)
	if !ok {
		return nil, false
	}
	supplier, err := h.SupplierService.GetByUserID(userID)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.profile_missing")
		return nil, false
	}
	return supplier, true
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, fallbackKey)
}
