package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("complete mission: %w", ErrMissionNotFound)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad %s", "input")))
	assert.Equal(t, KindTransient, KindOf(errors.New("connection reset")))
	assert.True(t, IsDomainError(wrapped))
	assert.False(t, IsDomainError(errors.New("driver: bad connection")))
}

func TestDomainErrorIs(t *testing.T) {
	err := NewValidationError("elapsedSeconds must not be negative")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, ErrQuestNotAvailable, ErrNotFound)
	assert.NotErrorIs(t, ErrQuestNotAvailable, ErrQuestNotFound)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindUnauthorized:        http.StatusUnauthorized,
		KindForbidden:           http.StatusForbidden,
		KindValidation:          http.StatusBadRequest,
		KindInsufficientBalance: http.StatusPaymentRequired,
		KindOutOfStock:          http.StatusConflict,
		KindNotFound:            http.StatusNotFound,
		KindTransient:           http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), kind.String())
	}
}
