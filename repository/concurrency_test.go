package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nexus/application"
	"nexus/database"
	"nexus/domain"
	"nexus/domain/events"
	"nexus/domain/services"
	"nexus/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concurrentWorkers = 10

// discardPublisher accepts every event and drops it
type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) error { return nil }
func (discardPublisher) Flush(context.Context) error { return nil }
func (discardPublisher) Discard() {}

// runConcurrently starts n units of work at once and returns each one's error
func runConcurrently(t *testing.T, db *database.DB, n int, fn func(ctx context.Context, worker int, uow application.UnitOfWork) error) []error {
	t.Helper()
	ctx := context.Background()

	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for worker := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			uow := CreateTestUnitOfWork(db, testGuildID, discardPublisher{})
			if err := uow.Begin(ctx); err != nil {
				errs[worker] = err
				return
			}
			defer uow.Rollback()

			if err := fn(ctx, worker, uow); err != nil {
				errs[worker] = err
				return
			}
			errs[worker] = uow.Commit()
		}()
	}
	close(start)
	wg.Wait()

	return errs
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}

func TestConcurrentMessageXPIsNotLost(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	const userID, award = int64(4242), int64(40)
	now := time.Now().UTC()

	settings := services.ProgressionSettings{XPPerMessage: award, Cooldown: 0}
	errs := runConcurrently(t, testDB.DB, concurrentWorkers, func(ctx context.Context, _ int, uow application.UnitOfWork) error {
		progression := services.NewProgressionService(uow.ProgressionRepository(), uow.EventBus(), settings)
		result, err := progression.AwardMessageXP(ctx, userID, 1, now)
		if err != nil {
			return err
		}
		if !result.Awarded {
			return errors.New("award suppressed")
		}
		return nil
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	record, err := NewProgressionRepositoryScoped(testDB.DB.Pool, testGuildID).Get(context.Background(), userID)
	require.NoError(t, err)

	total := record.XP
	for level := int64(0); level < record.Level; level++ {
		total += services.XPThreshold(level)
	}
	assert.Equal(t, concurrentWorkers*award, total, "every award must land in xp or a consumed threshold")
}

func TestConcurrentAddBalanceIsNotLost(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	const userID = int64(5151)

	errs := runConcurrently(t, testDB.DB, concurrentWorkers, func(ctx context.Context, _ int, uow application.UnitOfWork) error {
		_, err := uow.AccountRepository().AddBalance(ctx, userID, 25)
		return err
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	account, err := NewAccountRepository(testDB.DB, testGuildID).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(concurrentWorkers*25), account.Balance)
}

func TestConcurrentDailyClaimsPayOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	const userID = int64(6161)
	now := time.Now().UTC()
	settings := services.DefaultGameSettings()

	errs := runConcurrently(t, testDB.DB, concurrentWorkers, func(ctx context.Context, _ int, uow application.UnitOfWork) error {
		ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
		cooldowns := services.NewCooldownService(uow.CooldownRepository())
		games := services.NewGamesService(ledger, cooldowns, services.NewRandomSource(), settings)
		_, err := games.Daily(ctx, userID, now)
		return err
	})

	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrOnCooldown)
		}
	}

	account, err := NewAccountRepository(testDB.DB, testGuildID).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, settings.DailyReward, account.Balance)
}

func TestConcurrentAcceptancesMarryOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	const proposer = int64(7000)

	// several members accept open proposals from the same proposer at once
	errs := runConcurrently(t, testDB.DB, 4, func(ctx context.Context, worker int, uow application.UnitOfWork) error {
		marriages := services.NewMarriageService(uow.MarriageRepository(), uow.EventBus())
		_, err := marriages.Marry(ctx, proposer, proposer+int64(worker)+1, time.Now().UTC())
		return err
	})

	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrAlreadyMarried)
		}
	}

	record, err := NewMarriageRepositoryScoped(testDB.DB.Pool, testGuildID).GetByUser(context.Background(), proposer)
	require.NoError(t, err)
	require.NotNil(t, record)
}
