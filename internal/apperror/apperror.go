package apperror

import (
	"errors"
	"fmt"
)

// 错误分类的“哨兵”，service层返回的错误都能errors.Is到这里的某一个，
// handler层据此翻译成HTTP状态码，service层自己永远不认识HTTP
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrInternal        = errors.New("internal error")
)

// AppError 带人话消息的业务错误，Err指向上面的某个哨兵
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidArgument(message string) *AppError {
	return &AppError{Err: ErrInvalidArgument, Message: message}
}

// NotFound 既用于“真的不存在”，也用于“存在但对观看者不可见”：
// 未发布的视频、别人的私有播放列表，都按不存在处理，避免泄露资源的存在性
func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s不存在", resource)}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func RateLimited(message string) *AppError {
	return &AppError{Err: ErrRateLimited, Message: message}
}

func Internal(message string) *AppError {
	return &AppError{Err: ErrInternal, Message: message}
}
