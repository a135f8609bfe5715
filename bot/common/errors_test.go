package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"nexus/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestUserMessageFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		contains string
		expected bool
	}{
		{
			name:     "validation error shows its message",
			err:      domain.NewValidationError("amount", "amount must be positive"),
			contains: "amount must be positive",
			expected: true,
		},
		{
			name:     "cooldown shows remaining time",
			err:      fmt.Errorf("daily: %w", &domain.CooldownError{Action: "daily", Remaining: 90 * time.Minute}),
			contains: "1h 30m",
			expected: true,
		},
		{
			name:     "insufficient funds shows both amounts",
			err:      &domain.InsufficientFundsError{Balance: 50, Required: 1200},
			contains: "1,200",
			expected: true,
		},
		{
			name:     "missing configuration",
			err:      fmt.Errorf("report: %w", domain.ErrConfigurationMissing),
			contains: "set up",
			expected: true,
		},
		{
			name:     "discord forbidden",
			err:      &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}},
			contains: "permission",
			expected: true,
		},
		{
			name:     "missing permissions code",
			err:      &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadRequest}, Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}},
			contains: "permission",
			expected: true,
		},
		{
			name:     "user bot error",
			err:      NewUserError("Pick someone else.", "self target"),
			contains: "Pick someone else.",
			expected: true,
		},
		{
			name:     "store outage is generic",
			err:      domain.StoreError("failed to get account", errors.New("connection refused")),
			contains: genericErrorMessage,
			expected: false,
		},
		{
			name:     "system bot error is generic",
			err:      NewSystemError(errors.New("boom"), "failed"),
			contains: genericErrorMessage,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, expected := UserMessageFor(tt.err)
			assert.Contains(t, message, tt.contains)
			assert.Equal(t, tt.expected, expected)
		})
	}
}

func TestIsPermissionError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPermissionError(domain.ErrPermissionDenied))
	assert.True(t, IsPermissionError(fmt.Errorf("ban: %w", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})))
	assert.False(t, IsPermissionError(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}))
	assert.False(t, IsPermissionError(errors.New("other")))
}
