package utils

import (
	"context"
	"errors"
	"testing"

	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordBalanceChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockBalanceHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	history := &entities.BalanceHistory{
		UserID:          123456,
		GuildID:         789,
		BalanceBefore:   1000,
		BalanceAfter:    1500,
		ChangeAmount:    500,
		TransactionType: entities.TransactionTypeDaily,
	}

	mockBalanceHistoryRepo.On("Record", ctx, history).Return(nil)
	mockEventPublisher.On("Publish", events.BalanceChangeEvent{
		UserID:          123456,
		GuildID:         789,
		OldBalance:      1000,
		NewBalance:      1500,
		TransactionType: entities.TransactionTypeDaily,
		ChangeAmount:    500,
	}).Return(nil)

	err := RecordBalanceChange(ctx, mockBalanceHistoryRepo, mockEventPublisher, history)
	require.NoError(t, err)

	mockBalanceHistoryRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

func TestRecordBalanceChange_RecordFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockBalanceHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockBalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(errors.New("db down"))

	err := RecordBalanceChange(ctx, mockBalanceHistoryRepo, mockEventPublisher, &entities.BalanceHistory{UserID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record balance history")

	mockEventPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestRecordBalanceChange_PublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockBalanceHistoryRepo := new(testhelpers.MockBalanceHistoryRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockBalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockEventPublisher.On("Publish", mock.Anything).Return(errors.New("nats down"))

	err := RecordBalanceChange(ctx, mockBalanceHistoryRepo, mockEventPublisher, &entities.BalanceHistory{UserID: 1})
	assert.NoError(t, err)
}
