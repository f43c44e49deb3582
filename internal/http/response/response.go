package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// Response 统一响应结构
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码
	Msg        string      `json:"msg"`         // 提示消息
	Data       interface{} `json:"data"`        // 数据内容
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	var totalPage int64
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{StatusCode: CodeOK, Msg: "success", Data: data},
		Pagination: pagination,
	})
}

// Error 错误响应，附带 request_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       withRequestID(c, data),
	})
}

// NotFound 404
func NotFound(c *gin.Context, msg string) { Error(c, CodeNotFound, msg) }

// Unauthorized 401
func Unauthorized(c *gin.Context, msg string) { Error(c, CodeUnauthorized, msg) }

// Forbidden 403
func Forbidden(c *gin.Context, msg string) { Error(c, CodeForbidden, msg) }

// BadRequest 400
func BadRequest(c *gin.Context, msg string) { Error(c, CodeBadRequest, msg) }

// Conflict 409
func Conflict(c *gin.Context, msg string) { Error(c, CodeConflict, msg) }

// TooManyRequests 429
func TooManyRequests(c *gin.Context, msg string) { Error(c, CodeTooManyRequests, msg) }

func withRequestID(c *gin.Context, data interface{}) interface{} {
	if c == nil {
		return data
	}
	requestID := c.GetString(requestIDKey)
	if requestID == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{requestIDKey: requestID}
	case gin.H:
		if _, exists := v[requestIDKey]; !exists {
			v[requestIDKey] = requestID
		}
		return v
	case map[string]interface{}:
		if _, exists := v[requestIDKey]; !exists {
			v[requestIDKey] = requestID
		}
		return v
	}
	return gin.H{requestIDKey: requestID, "data": data}
}
