package response

import "fmt"

// AppError 处理器层错误：业务码、已本地化文案与原始错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal 是否服务端故障（5xx）
func (e *AppError) Internal() bool {
	return e.Code >= CodeInternal && e.Code < 600
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
