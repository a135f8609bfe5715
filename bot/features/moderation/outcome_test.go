package moderation

import (
	"fmt"
	"net/http"
	"testing"

	"nexus/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestOutcomeFromError(t *testing.T) {
	t.Parallel()

	forbidden := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}

	tests := []struct {
		name string
		err  error
		want OutcomeKind
	}{
		{name: "hierarchy", err: errHierarchy, want: OutcomePermissionDenied},
		{name: "self", err: errSelf, want: OutcomeValidation},
		{name: "bad duration", err: domain.NewValidationError("duration", "bad"), want: OutcomeValidation},
		{name: "no log channel", err: fmt.Errorf("wrap: %w", domain.ErrConfigurationMissing), want: OutcomeConfigurationMissing},
		{name: "discord forbidden", err: forbidden, want: OutcomePermissionDenied},
		{name: "domain permission", err: domain.ErrPermissionDenied, want: OutcomePermissionDenied},
		{name: "store failure", err: domain.StoreError("insert warning", fmt.Errorf("conn reset")), want: OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome := outcomeFromError(tt.err)
			assert.Equal(t, tt.want, outcome.Kind)
			assert.NotEmpty(t, outcome.Message)
			assert.Equal(t, tt.err, outcome.Err)
		})
	}
}

func TestOutcomeKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "permission_denied", OutcomePermissionDenied.String())
	assert.Equal(t, "failed", OutcomeKind(99).String())
}
