package services

import (
	"context"
	"testing"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigService_Setters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(testhelpers.MockGuildConfigRepository)
	stored := &entities.GuildConfig{GuildID: 1}
	repo.On("GetOrCreateGuildConfig", ctx, int64(1)).Return(stored, nil)
	repo.On("UpdateGuildConfig", ctx, stored).Return(nil)

	service := NewGuildConfigService(repo)

	cfg, err := service.SetLogChannel(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, cfg.HasLogChannel())

	role := int64(300)
	cfg, err = service.SetReportChannel(ctx, 1, 200, &role)
	require.NoError(t, err)
	assert.Equal(t, int64(200), *cfg.ReportChannelID)
	assert.True(t, cfg.HasReportRole())

	cfg, err = service.SetReportChannel(ctx, 1, 201, nil)
	require.NoError(t, err)
	assert.False(t, cfg.HasReportRole())

	cfg, err = service.SetAutorole(ctx, 1, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(400), *cfg.AutoroleID)

	repo.AssertNumberOfCalls(t, "UpdateGuildConfig", 4)
}

func TestGuildConfigService_GetReportTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	channel := int64(200)
	repo := new(testhelpers.MockGuildConfigRepository)
	repo.On("GetOrCreateGuildConfig", ctx, int64(1)).Return(&entities.GuildConfig{GuildID: 1}, nil)
	repo.On("GetOrCreateGuildConfig", ctx, int64(2)).Return(&entities.GuildConfig{GuildID: 2, ReportChannelID: &channel}, nil)

	service := NewGuildConfigService(repo)

	_, err := service.GetReportTarget(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	cfg, err := service.GetReportTarget(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, channel, *cfg.ReportChannelID)
	repo.AssertNotCalled(t, "UpdateGuildConfig", mock.Anything, mock.Anything)
}
