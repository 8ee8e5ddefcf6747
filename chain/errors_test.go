package chain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrors(t *testing.T) {
	for _, err := range []error{ErrBlockNotFound, ErrTransactionNotFound, ErrAccountNotFound, ErrValidatorNotFound} {
		assert.True(t, IsNotFound(err))
		assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsTimeout(err))
	}

	assert.False(t, errors.Is(ErrBlockNotFound, ErrTransactionNotFound))
	assert.Equal(t, "block not found", ErrBlockNotFound.Error())
}

func TestRequestErrorMatchesKindAndCause(t *testing.T) {
	err := &RequestError{
		Endpoint: "/status",
		Kind:     ErrEndpointUnavailable,
		Cause:    ErrMalformedResponse,
	}

	assert.ErrorIs(t, err, ErrEndpointUnavailable)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, "/status", EndpointOf(fmt.Errorf("outer: %w", err)))
	assert.Contains(t, err.Error(), "/status")
}

func TestReclassify(t *testing.T) {
	orig := &RequestError{Endpoint: "/cosmos/tx/v1beta1/txs/AB", StatusCode: 404, Kind: ErrNotFound}

	err := Reclassify(orig, ErrTransactionNotFound)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "/cosmos/tx/v1beta1/txs/AB", EndpointOf(err))
	assert.Equal(t, 404, StatusCodeOf(err))

	plain := Reclassify(errors.New("boom"), ErrBlockNotFound)
	assert.ErrorIs(t, plain, ErrBlockNotFound)
	assert.Equal(t, "", EndpointOf(plain))
}

func TestUnavailable(t *testing.T) {
	malformed := Malformed("/status", "missing %s", "height")
	assert.ErrorIs(t, malformed, ErrMalformedResponse)

	err := Unavailable(malformed)
	assert.ErrorIs(t, err, ErrEndpointUnavailable)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, "/status", EndpointOf(err))

	notFound := &RequestError{Endpoint: "/status", StatusCode: 404, Kind: ErrNotFound}
	err = Unavailable(notFound)
	assert.ErrorIs(t, err, ErrEndpointUnavailable)
	assert.False(t, IsNotFound(err))

	timeout := &RequestError{Endpoint: "/status", Kind: ErrRequestTimeout}
	assert.Same(t, timeout, Unavailable(timeout))

	assert.ErrorIs(t, Unavailable(errors.New("boom")), ErrEndpointUnavailable)
	assert.NoError(t, Unavailable(nil))
}
