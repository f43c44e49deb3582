package public

import "github.com/foodhub-next/internal/provider"

// Handler 前台与登录接口处理器入口
// 说明：商品浏览、价格预览、下单与订单查询无需登录；/me 系列需登录。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
