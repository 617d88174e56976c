package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrUsernameTaken, http.StatusBadRequest},
		{ErrCustomerExists, http.StatusBadRequest},
		{ErrProductExists, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{ErrInvalidDateRange, http.StatusBadRequest},
		{ErrInvalidCoordinates, http.StatusBadRequest},
		{ErrEmptyUpdate, http.StatusBadRequest},
		{ErrCustomerNotFound, http.StatusNotFound},
		{ErrProductNotFound, http.StatusNotFound},
		{ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusCode(tt.err), "status for %v", tt.err)
	}
}

func TestStatusCodeUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestStatusCodeUnwrapsErrors(t *testing.T) {
	wrapped := fmt.Errorf("updating customer: %w", ErrCustomerNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}
