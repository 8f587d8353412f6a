package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	res "github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

// CreatedResponse 创建成功
func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(data))
}

// ListResponse 列表结果
func ListResponse(c *gin.Context, items any, total int) {
	c.JSON(http.StatusOK, res.ListResponse(items, total))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(HTTPStatus(err.Code), res.ErrorResponse(err.Code, err.Msg))
}

// HandleError 统一处理 service 层返回的错误
// 业务错误只输出 Msg，底层错误写日志，不返回给调用方
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	var be *res.BusinessError
	if !errors.As(err, &be) {
		be = res.DependencyError("服务内部错误", err)
	}

	if be.Code == res.DependencyFailure || be.Code == res.Fail {
		logger.Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("message", be.Msg),
			zap.Error(be.Err),
		)
	}

	ErrorResponse(c, be)
}

// HTTPStatus 业务错误码对应的 HTTP 状态码
func HTTPStatus(code res.ResponseCode) int {
	switch code {
	case res.ParseError, res.InvalidParameter:
		return http.StatusBadRequest
	case res.Unauthorized:
		return http.StatusUnauthorized
	case res.Forbidden:
		return http.StatusForbidden
	case res.NotFound:
		return http.StatusNotFound
	case res.Conflict:
		return http.StatusConflict
	case res.DependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		firstErr := validationErrs[0]
		jsonField := toSnakeCase(firstErr.Field())

		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
		case "max":
			message = fmt.Sprintf("字段 '%s' 长度不能超过 %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("字段 '%s' 长度不能少于 %s", jsonField, firstErr.Param())
		case "email":
			message = fmt.Sprintf("字段 '%s' 不是有效的邮箱", jsonField)
		case "oneof":
			message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
		default:
			message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
		}

		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(message),
		))
		return
	}

	// 如果不是 validation 错误，返回通用消息
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("请检查参数"),
	))
}

// toSnakeCase 将PascalCase转换为snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
