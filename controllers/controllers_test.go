package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelterlink_server/services"

	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: donation d-1", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: user u-1 is not part of match m-1", services.ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("%w: quantity must be positive", services.ErrInvalidArgument), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}

	// Wrapping must survive an extra layer
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("cascade aborted at donation d-1: %w",
		fmt.Errorf("%w: donation d-1", services.ErrPermissionDenied)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"id": "d-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"d-1"}`, rec.Body.String())
}
