package application

import (
	"context"

	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/interfaces"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// stubUnitOfWork hands out testhelpers mocks and records the transaction outcome
type stubUnitOfWork struct {
	guildID     int64
	tempMutes   *testhelpers.MockTempMuteRepository
	warnings    *testhelpers.MockWarningRepository
	guildConfig *testhelpers.MockGuildConfigRepository
	publisher   *testhelpers.MockEventPublisher
	beginErr    error
	committed   bool
	rolledBack  bool
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error { return u.beginErr }
func (u *stubUnitOfWork) Commit() error {
	u.committed = true
	return nil
}
func (u *stubUnitOfWork) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *stubUnitOfWork) AccountRepository() interfaces.AccountRepository { return nil }
func (u *stubUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return nil
}
func (u *stubUnitOfWork) ProgressionRepository() interfaces.ProgressionRepository { return nil }
func (u *stubUnitOfWork) CooldownRepository() interfaces.CooldownRepository       { return nil }
func (u *stubUnitOfWork) ShopRepository() interfaces.ShopRepository               { return nil }
func (u *stubUnitOfWork) MarriageRepository() interfaces.MarriageRepository       { return nil }
func (u *stubUnitOfWork) GuildConfigRepository() interfaces.GuildConfigRepository {
	return u.guildConfig
}
func (u *stubUnitOfWork) TempMuteRepository() interfaces.TempMuteRepository { return u.tempMutes }
func (u *stubUnitOfWork) WarningRepository() interfaces.WarningRepository   { return u.warnings }
func (u *stubUnitOfWork) TicketConfigRepository() interfaces.TicketConfigRepository {
	return nil
}
func (u *stubUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

// stubUnitOfWorkFactory returns the prepared unit of work for each guild
type stubUnitOfWorkFactory struct {
	units map[int64]*stubUnitOfWork
}

func (f *stubUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	return f.units[guildID]
}

func newStubUnitOfWork(guildID int64) *stubUnitOfWork {
	return &stubUnitOfWork{
		guildID:     guildID,
		tempMutes:   new(testhelpers.MockTempMuteRepository),
		warnings:    new(testhelpers.MockWarningRepository),
		guildConfig: new(testhelpers.MockGuildConfigRepository),
		publisher:   new(testhelpers.MockEventPublisher),
	}
}

type mockDiscordPoster struct {
	mock.Mock
}

func (m *mockDiscordPoster) PostLevelUp(ctx context.Context, channelID, userID, level int64) error {
	return m.Called(ctx, channelID, userID, level).Error(0)
}

func (m *mockDiscordPoster) PostModerationLog(ctx context.Context, channelID int64, event events.ModerationEvent) error {
	return m.Called(ctx, channelID, event).Error(0)
}

type mockMuteRoleManager struct {
	mock.Mock
}

func (m *mockMuteRoleManager) RemoveMuteRole(ctx context.Context, guildID, userID int64) error {
	return m.Called(ctx, guildID, userID).Error(0)
}

type mockLeaderboardCache struct {
	mock.Mock
}

func (m *mockLeaderboardCache) Get(ctx context.Context, guildID int64, limit int) ([]*entities.RankEntry, bool, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entities.RankEntry), args.Bool(1), args.Error(2)
}

func (m *mockLeaderboardCache) Set(ctx context.Context, guildID int64, limit int, entries []*entities.RankEntry) error {
	return m.Called(ctx, guildID, limit, entries).Error(0)
}

func (m *mockLeaderboardCache) Invalidate(ctx context.Context, guildID int64) error {
	return m.Called(ctx, guildID).Error(0)
}
