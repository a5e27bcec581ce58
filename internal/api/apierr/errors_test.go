package apierr

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/baseballgame-go/internal/model"
)

func TestClassifyWrappedSentinels(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{model.ErrDuplicateID, CodeDuplicateID, http.StatusConflict},
		{fmt.Errorf("join: %w", model.ErrRoomFull), CodeRoomFull, http.StatusConflict},
		{fmt.Errorf("guess: %w", model.ErrDuplicateDigits), CodeDuplicateDigits, http.StatusBadRequest},
		{fmt.Errorf("%w: cannot kick yourself", model.ErrInvalidInput), CodeInvalidInput, http.StatusBadRequest},
		{model.ErrInvalidToken, CodeNotAuthenticated, http.StatusUnauthorized},
		{model.ErrServerFull, CodeServerFull, http.StatusServiceUnavailable},
		{fmt.Errorf("guess: %w", model.ErrTurnTimeout), CodeTurnTimeout, http.StatusConflict},
		{fmt.Errorf("boom"), CodeUnknownError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			apiErr, status := Classify(tc.err)
			assert.Equal(t, tc.code, apiErr.Code)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewInvalidRequestError("bad id"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"code":"INVALID_INPUT","message":"bad id"}}`, rec.Body.String())
}
