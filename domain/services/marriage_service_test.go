package services

import (
	"context"
	"testing"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeMarriageRepo keeps pairs in memory so symmetry can be checked end to end
type fakeMarriageRepo struct {
	records []*entities.MarriageRecord
	locked  [][]int64
}

func (f *fakeMarriageRepo) LockUsers(_ context.Context, userIDs ...int64) error {
	f.locked = append(f.locked, userIDs)
	return nil
}

func (f *fakeMarriageRepo) GetByUser(_ context.Context, userID int64) (*entities.MarriageRecord, error) {
	for _, r := range f.records {
		if r.User1ID == userID || r.User2ID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeMarriageRepo) Create(_ context.Context, record *entities.MarriageRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeMarriageRepo) Delete(_ context.Context, user1ID, user2ID int64) error {
	kept := f.records[:0]
	for _, r := range f.records {
		if r.User1ID != user1ID || r.User2ID != user2ID {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func TestMarriageService_Symmetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	repo := &fakeMarriageRepo{}
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.AnythingOfType("events.MarriageEvent")).Return(nil)

	service := NewMarriageService(repo, publisher)

	record, err := service.Marry(ctx, 900, 100, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100), record.User1ID, "smaller id is stored first")
	assert.Equal(t, int64(900), record.User2ID)
	require.Len(t, repo.records, 1)

	partner, married, err := service.GetPartner(ctx, 100)
	require.NoError(t, err)
	assert.True(t, married)
	assert.Equal(t, int64(900), partner)

	partner, married, err = service.GetPartner(ctx, 900)
	require.NoError(t, err)
	assert.True(t, married)
	assert.Equal(t, int64(100), partner)

	assert.ErrorIs(t, service.CanPropose(ctx, 100, 555), domain.ErrAlreadyMarried)
	assert.ErrorIs(t, service.CanPropose(ctx, 555, 900), domain.ErrAlreadyMarried)

	publisher.AssertCalled(t, "Publish", events.MarriageEvent{User1ID: 100, User2ID: 900, Married: true})
}

func TestMarriageService_CanPropose_Self(t *testing.T) {
	t.Parallel()

	service := NewMarriageService(new(testhelpers.MockMarriageRepository), new(testhelpers.MockEventPublisher))
	assert.ErrorIs(t, service.CanPropose(context.Background(), 1, 1), domain.ErrValidation)
}

func TestMarriageService_Divorce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &fakeMarriageRepo{}
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	service := NewMarriageService(repo, publisher)

	_, err := service.Divorce(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotMarried)

	_, err = service.Marry(ctx, 1, 2, time.Now())
	require.NoError(t, err)

	record, err := service.Divorce(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.User1ID)
	assert.Empty(t, repo.records)

	_, married, err := service.GetPartner(ctx, 1)
	require.NoError(t, err)
	assert.False(t, married)

	// both are free to propose again
	assert.NoError(t, service.CanPropose(ctx, 1, 3))
}

func TestMarriageService_Marry_LocksBothPartiesBeforeChecking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(testhelpers.MockMarriageRepository)
	repo.On("LockUsers", ctx, []int64{7, 3}).Return(nil).Once()
	repo.On("GetByUser", ctx, int64(7)).Return(nil, nil)
	repo.On("GetByUser", ctx, int64(3)).Return(&entities.MarriageRecord{User1ID: 3, User2ID: 5}, nil)

	service := NewMarriageService(repo, new(testhelpers.MockEventPublisher))
	_, err := service.Marry(ctx, 7, 3, time.Now())

	assert.ErrorIs(t, err, domain.ErrAlreadyMarried)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarriageService_Marry_LockFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(testhelpers.MockMarriageRepository)
	repo.On("LockUsers", ctx, []int64{1, 2}).Return(domain.StoreError("lock", assert.AnError))

	service := NewMarriageService(repo, new(testhelpers.MockEventPublisher))
	_, err := service.Marry(ctx, 1, 2, time.Now())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	repo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
}
