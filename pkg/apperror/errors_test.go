package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockCarriesQuantities(t *testing.T) {
	id := uuid.New()
	err := NewInsufficientStockError(id, "Basmati Rice 5kg", 3, 5)

	assert.Equal(t, KindInsufficientStock, err.Kind)
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Contains(t, err.Message, "available 3, requested 5")
	assert.Equal(t, 3, err.Details["available"])
	assert.Equal(t, 5, err.Details["requested"])
	assert.Equal(t, id.String(), err.Details["product_id"])
}

func TestKindOfWrapped(t *testing.T) {
	base := NewAlreadyCancelledError("ORD-1")
	wrapped := fmt.Errorf("cancel: %w", base)

	assert.Equal(t, KindAlreadyCancelled, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindAlreadyCancelled))
	assert.False(t, Is(nil, KindAlreadyCancelled))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestTransactionFailureUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransactionFailure("create order", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "create order failed: connection reset", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, GetAppError(err).Code)
}

func TestGetAppErrorForeign(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "boom", appErr.Message)
}

func TestNewAppErrorDerivesKind(t *testing.T) {
	assert.Equal(t, KindConflict, NewAppError(http.StatusConflict, "x").Kind)
	assert.Equal(t, KindValidation, NewFieldError("quantity", "must be positive").Kind)
}
