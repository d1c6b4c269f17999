package util

import (
	"errors"
	"net/http"

	"study_rewards_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Error     string      `json:"error,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	RespondError(c, ErrUnauthorized)
}

func Forbidden(c *gin.Context) {
	RespondError(c, ErrForbidden)
}

func BadRequest(c *gin.Context, message string) {
	RespondError(c, NewValidationError("%s", message))
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HTTPStatus 错误分类对应的HTTP状态码
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindInsufficientBalance:
		return http.StatusPaymentRequired
	case KindOutOfStock:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

// RespondError 按错误分类输出；存储错误记录日志并提示客户端重试
func RespondError(c *gin.Context, err error) {
	RespondErrorWithData(c, err, nil)
}

// RespondErrorWithData 同 RespondError，附带业务数据（如当前余额）
func RespondErrorWithData(c *gin.Context, err error, data interface{}) {
	kind := KindOf(err)
	status := HTTPStatus(kind)

	message := err.Error()
	if kind == KindTransient {
		logger.Log.Error("store operation failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		message = "temporary failure, please retry"
	}

	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		message = de.Message
	}

	c.AbortWithStatusJSON(status, Response{
		Code:      status,
		Message:   message,
		Error:     kind.String(),
		Retryable: kind == KindTransient,
		Data:      data,
	})
}
