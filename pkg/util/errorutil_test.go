package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", fmt.Errorf("load shift: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"domain", NewInvalidTransition("draft", "completed", "nope"), "INVALID_TRANSITION", http.StatusConflict},
		{"wrapped domain", fmt.Errorf("x: %w", NewStaleTransition("s", "open")), "STALE_TRANSITION", http.StatusConflict},
		{"trust", NewTrustDenied("post_shift", "Недостаточный уровень доверия"), "TRUST_DENIED", http.StatusForbidden},
		{"fiber", fiber.NewError(http.StatusForbidden, "insufficient role"), "Forbidden", http.StatusForbidden},
		{"plain", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestInvalidTransitionDetails(t *testing.T) {
	de := ToDomainError(NewInvalidTransition("open", "completed", "Transition from open to completed is not allowed"))
	assert.Equal(t, map[string]any{"from": "open", "to": "completed"}, de.Details)
	assert.Equal(t, "Transition from open to completed is not allowed", de.Error())
}
