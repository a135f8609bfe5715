package services

import (
	"context"
	"strings"
	"testing"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketService_SetupAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := &entities.TicketConfig{GuildID: 1, SupportRoleID: 2, TicketCategoryID: 3}
	repo := new(testhelpers.MockTicketConfigRepository)
	repo.On("UpsertTicketConfig", ctx, cfg).Return(nil)
	repo.On("GetTicketConfig", ctx, int64(1)).Return(cfg, nil)
	repo.On("GetTicketConfig", ctx, int64(9)).Return(nil, nil)

	service := NewTicketService(repo)

	saved, err := service.Setup(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)

	got, err := service.GetConfig(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = service.GetConfig(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestTicketChannelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		username string
		want     string
	}{
		{username: "Alice", want: "ticket-alice"},
		{username: "john.doe_99", want: "ticket-john-doe-99"},
		{username: "__", want: "ticket-user"},
		{username: "Ñandú", want: "ticket-and"},
	}

	for _, tt := range tests {
		got := TicketChannelName(tt.username)
		assert.Equal(t, tt.want, got, tt.username)
		assert.True(t, IsTicketChannel(got))
	}

	long := TicketChannelName(strings.Repeat("a", 200))
	assert.LessOrEqual(t, len(long), 100)
	assert.False(t, IsTicketChannel("general"))
}
