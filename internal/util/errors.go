package util

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类，决定对外的HTTP状态码
type ErrorKind int

const (
	KindTransient ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindValidation
	KindInsufficientBalance
	KindOutOfStock
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_error"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindOutOfStock:
		return "out_of_stock"
	case KindNotFound:
		return "not_found"
	default:
		return "transient_store_error"
	}
}

// DomainError 业务错误
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 同类错误视为相等，便于 errors.Is(err, ErrValidation)
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrUnauthorized        = &DomainError{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden           = &DomainError{Kind: KindForbidden, Message: "forbidden"}
	ErrValidation          = &DomainError{Kind: KindValidation}
	ErrInsufficientBalance = &DomainError{Kind: KindInsufficientBalance, Message: "insufficient points"}
	ErrOutOfStock          = &DomainError{Kind: KindOutOfStock, Message: "prizes are out of stock"}
	ErrNotFound            = &DomainError{Kind: KindNotFound}

	ErrMissionNotFound    = &DomainError{Kind: KindNotFound, Message: "mission not found"}
	ErrNoChapterAvailable = &DomainError{Kind: KindNotFound, Message: "no published chapter available"}
	ErrQuestNotFound      = &DomainError{Kind: KindNotFound, Message: "quest not found"}
	ErrQuestNotAvailable  = &DomainError{Kind: KindNotFound, Message: "quest not currently available"}
	ErrPrizeNotFound      = &DomainError{Kind: KindNotFound, Message: "prize not found"}
	ErrFeatureDisabled    = &DomainError{Kind: KindNotFound, Message: "feature is currently disabled"}
)

// NewValidationError 创建参数校验错误
func NewValidationError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误分类；非业务错误一律视为存储层临时错误
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransient
}

// IsDomainError 判断是否为业务错误
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
