package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Matching(t *testing.T) {
	assert.True(t, IsNotFound(ErrSubjectNotFound))
	assert.True(t, IsAlreadyExists(ErrDuplicateID))
	assert.True(t, IsBusy(ErrOperationInFlight))
	assert.False(t, IsNotFound(ErrDuplicateID))

	cause := errors.New("disk full")
	wrapped := WrapError("store", "Insert", ErrInvalidState, "write failed", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrInvalidState)
	assert.Equal(t, "store.Insert: write failed: disk full", wrapped.Error())
}

func TestTransportError(t *testing.T) {
	err := NewTransportError("create", 503, errors.New("unavailable"))
	assert.True(t, IsTransport(err))
	assert.True(t, IsTransport(fmt.Errorf("add: %w", err)))
	assert.Equal(t, "remote create: status 503: unavailable", err.Error())

	var te *TransportError
	assert.True(t, errors.As(fmt.Errorf("x: %w", err), &te))
	assert.Equal(t, 503, te.Status)

	noCause := NewTransportError("fetch", 0, nil)
	assert.ErrorIs(t, noCause, ErrServiceUnavailable)
	assert.False(t, IsTransport(ErrSubjectNotFound))
}
