package testhelpers

import (
	"context"
	"time"

	"nexus/domain/entities"
	"nexus/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, userID int64) (*entities.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, userID int64, delta int64) (*entities.Account, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, userID int64, amount int64) (*entities.Account, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockProgressionRepository is a mock implementation of ProgressionRepository
type MockProgressionRepository struct {
	mock.Mock
}

func (m *MockProgressionRepository) Get(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProgressionRecord), args.Error(1)
}

func (m *MockProgressionRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProgressionRecord), args.Error(1)
}

func (m *MockProgressionRepository) Save(ctx context.Context, record *entities.ProgressionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressionRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.RankEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RankEntry), args.Error(1)
}

func (m *MockProgressionRepository) GetRank(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockCooldownRepository is a mock implementation of CooldownRepository
type MockCooldownRepository struct {
	mock.Mock
}

func (m *MockCooldownRepository) Get(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error) {
	args := m.Called(ctx, userID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CooldownEntry), args.Error(1)
}

func (m *MockCooldownRepository) GetForUpdate(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error) {
	args := m.Called(ctx, userID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CooldownEntry), args.Error(1)
}

func (m *MockCooldownRepository) Upsert(ctx context.Context, userID int64, action entities.CooldownAction, at time.Time) error {
	args := m.Called(ctx, userID, action, at)
	return args.Error(0)
}

// MockShopRepository is a mock implementation of ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetListing(ctx context.Context, roleID int64) (*entities.ShopListing, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShopListing), args.Error(1)
}

func (m *MockShopRepository) ListListings(ctx context.Context) ([]*entities.ShopListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShopListing), args.Error(1)
}

func (m *MockShopRepository) UpsertListing(ctx context.Context, roleID int64, price int64) error {
	args := m.Called(ctx, roleID, price)
	return args.Error(0)
}

func (m *MockShopRepository) DeleteListing(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

// MockMarriageRepository is a mock implementation of MarriageRepository
type MockMarriageRepository struct {
	mock.Mock
}

func (m *MockMarriageRepository) GetByUser(ctx context.Context, userID int64) (*entities.MarriageRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MarriageRecord), args.Error(1)
}

func (m *MockMarriageRepository) LockUsers(ctx context.Context, userIDs ...int64) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

func (m *MockMarriageRepository) Create(ctx context.Context, record *entities.MarriageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMarriageRepository) Delete(ctx context.Context, user1ID, user2ID int64) error {
	args := m.Called(ctx, user1ID, user2ID)
	return args.Error(0)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) UpdateGuildConfig(ctx context.Context, config *entities.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockTempMuteRepository is a mock implementation of TempMuteRepository
type MockTempMuteRepository struct {
	mock.Mock
}

func (m *MockTempMuteRepository) Upsert(ctx context.Context, userID int64, unmuteTime time.Time) error {
	args := m.Called(ctx, userID, unmuteTime)
	return args.Error(0)
}

func (m *MockTempMuteRepository) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTempMuteRepository) GetExpired(ctx context.Context, now time.Time) ([]*entities.TempMute, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TempMute), args.Error(1)
}

func (m *MockTempMuteRepository) GetGuildsWithExpiredMutes(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockWarningRepository is a mock implementation of WarningRepository
type MockWarningRepository struct {
	mock.Mock
}

func (m *MockWarningRepository) Create(ctx context.Context, warning *entities.Warning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

func (m *MockWarningRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Warning), args.Error(1)
}

func (m *MockWarningRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTicketConfigRepository is a mock implementation of TicketConfigRepository
type MockTicketConfigRepository struct {
	mock.Mock
}

func (m *MockTicketConfigRepository) GetTicketConfig(ctx context.Context, guildID int64) (*entities.TicketConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketConfig), args.Error(1)
}

func (m *MockTicketConfigRepository) UpsertTicketConfig(ctx context.Context, config *entities.TicketConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
