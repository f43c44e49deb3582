package response

import "fmt"

// 业务状态码，写入响应体 status_code，HTTP 状态码恒为 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// AppError 携带业务状态码的错误，Err 保留原始原因供日志使用
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 构造 AppError，未知状态码归为内部错误
func WrapError(code int, message string, err error) *AppError {
	if code == CodeOK {
		code = CodeInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}
