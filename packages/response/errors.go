package response

import "errors"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未认证
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 唯一性冲突
	Conflict ResponseCode = 6
	// 外部依赖（数据库、对象存储）失败
	DependencyFailure ResponseCode = 7
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// CodeOf 提取错误链中的业务错误码，非业务错误返回 Fail
func CodeOf(err error) ResponseCode {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return Fail
}

// IsCode 判断错误链中是否包含指定业务错误码
func IsCode(err error, code ResponseCode) bool {
	return err != nil && CodeOf(err) == code
}

func NotFoundError(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(NotFound), WithErrorMessage(msg))
}

func ValidationError(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(InvalidParameter), WithErrorMessage(msg))
}

func ConflictError(msg string, err error) *BusinessError {
	return NewBusinessError(WithErrorCode(Conflict), WithErrorMessage(msg), WithError(err))
}

func ForbiddenError(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(Forbidden), WithErrorMessage(msg))
}

// DependencyError 包装数据库或对象存储错误，Msg 面向调用方，Err 只写日志
func DependencyError(msg string, err error) *BusinessError {
	return NewBusinessError(WithErrorCode(DependencyFailure), WithErrorMessage(msg), WithError(err))
}
