package admin

import (
	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 平台管理端接口处理器入口
// 说明：覆盖收益规则、商品审核、订单干预、结算与提现复核；
// 写操作一律记录操作人，供审计与状态流水使用。
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// operatorID 读取执行操作的管理员账号，失败时已写入响应
func operatorID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

// pathID 解析路径中的资源 ID，非法时已写入响应
func pathID(c *gin.Context, key string) (uint, bool) {
	id, ok := handlershared.ParsePathUint(c, key)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
	}
	return id, ok
}
