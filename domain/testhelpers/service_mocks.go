package testhelpers

import (
	"context"
	"time"

	"nexus/domain/entities"
	"nexus/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Add(ctx context.Context, userID int64, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	args := m.Called(ctx, userID, delta, txType, metadata)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Set(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) LockBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) RequireFunds(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	args := m.Called(ctx, userID, amount, txType, metadata)
	return args.Get(0).(int64), args.Error(1)
}

// MockCooldownService is a mock implementation of CooldownService
type MockCooldownService struct {
	mock.Mock
}

func (m *MockCooldownService) Check(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*interfaces.CooldownResult, error) {
	args := m.Called(ctx, userID, action, window, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.CooldownResult), args.Error(1)
}

func (m *MockCooldownService) Acquire(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*interfaces.CooldownResult, error) {
	args := m.Called(ctx, userID, action, window, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.CooldownResult), args.Error(1)
}

func (m *MockCooldownService) Record(ctx context.Context, userID int64, action entities.CooldownAction, now time.Time) error {
	args := m.Called(ctx, userID, action, now)
	return args.Error(0)
}
