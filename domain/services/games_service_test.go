package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptedRandom replays fixed draws so game outcomes are deterministic
type scriptedRandom struct {
	ints   []int
	floats []float64
}

func (r *scriptedRandom) Intn(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

var gameNow = time.Date(2025, 5, 5, 18, 0, 0, 0, time.UTC)

func allowed() *interfaces.CooldownResult {
	return &interfaces.CooldownResult{Allowed: true}
}

func TestSlotsMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reels [3]string
		want  int64
	}{
		{name: "three of a kind", reels: [3]string{"7️⃣", "7️⃣", "7️⃣"}, want: 7},
		{name: "first pair", reels: [3]string{"🍒", "🍒", "🍋"}, want: 2},
		{name: "second pair", reels: [3]string{"🍋", "🍇", "🍇"}, want: 2},
		{name: "outer reels only", reels: [3]string{"🍇", "🍋", "🍇"}, want: 0},
		{name: "all distinct", reels: [3]string{"🍒", "🍇", "🍋"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SlotsMultiplier(tt.reels))
		})
	}
}

func TestGamesService_Slots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		draws      []int
		stake      int64
		wantNet    int64
		wantTxType entities.TransactionType
	}{
		{name: "jackpot pays seven times stake", draws: []int{3, 3, 3}, stake: 100, wantNet: 700, wantTxType: entities.TransactionTypeSlotsWin},
		{name: "adjacent pair pays two times stake", draws: []int{0, 0, 2}, stake: 100, wantNet: 200, wantTxType: entities.TransactionTypeSlotsWin},
		{name: "all distinct loses stake", draws: []int{0, 1, 2}, stake: 100, wantNet: -100, wantTxType: entities.TransactionTypeSlotsLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			ledger := new(testhelpers.MockLedgerService)
			ledger.On("RequireFunds", ctx, int64(1), tt.stake).Return(int64(1000), nil)
			ledger.On("Add", ctx, int64(1), tt.wantNet, tt.wantTxType, mock.Anything).Return(1000+tt.wantNet, nil)

			games := NewGamesService(ledger, new(testhelpers.MockCooldownService), &scriptedRandom{ints: tt.draws}, DefaultGameSettings())
			result, err := games.Slots(ctx, 1, tt.stake)

			require.NoError(t, err)
			assert.Equal(t, tt.wantNet, result.Net)
			assert.Equal(t, 1000+tt.wantNet, result.NewBalance)
			ledger.AssertExpectations(t)
		})
	}
}

func TestGamesService_Slots_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ledger := new(testhelpers.MockLedgerService)
	ledger.On("RequireFunds", ctx, int64(1), int64(500)).Return(int64(100), &domain.InsufficientFundsError{Balance: 100, Required: 500})

	games := NewGamesService(ledger, new(testhelpers.MockCooldownService), &scriptedRandom{}, DefaultGameSettings())

	_, err := games.Slots(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = games.Slots(ctx, 1, 500)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	ledger.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGamesService_Flip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		side      string
		draw      int
		wantWon   bool
		wantDelta int64
	}{
		{name: "cara wins on heads", side: "cara", draw: 0, wantWon: true, wantDelta: 50},
		{name: "cara loses on tails", side: "Cara", draw: 1, wantWon: false, wantDelta: -50},
		{name: "english alias", side: "tails", draw: 1, wantWon: true, wantDelta: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			ledger := new(testhelpers.MockLedgerService)
			ledger.On("RequireFunds", ctx, int64(1), int64(50)).Return(int64(100), nil)
			ledger.On("Add", ctx, int64(1), tt.wantDelta, mock.Anything, mock.Anything).Return(100+tt.wantDelta, nil)

			games := NewGamesService(ledger, new(testhelpers.MockCooldownService), &scriptedRandom{ints: []int{tt.draw}}, DefaultGameSettings())
			result, err := games.Flip(ctx, 1, tt.side, 50)

			require.NoError(t, err)
			assert.Equal(t, tt.wantWon, result.Won)
			assert.Equal(t, 100+tt.wantDelta, result.NewBalance)
		})
	}
}

func TestGamesService_Flip_InvalidSide(t *testing.T) {
	t.Parallel()

	games := NewGamesService(new(testhelpers.MockLedgerService), new(testhelpers.MockCooldownService), &scriptedRandom{}, DefaultGameSettings())
	_, err := games.Flip(context.Background(), 1, "edge", 50)

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "side", validation.Field)
}

func TestGamesService_Rob(t *testing.T) {
	t.Parallel()
	settings := DefaultGameSettings()
	const actor, target = int64(10), int64(20)

	t.Run("self rob is rejected", func(t *testing.T) {
		t.Parallel()
		games := NewGamesService(new(testhelpers.MockLedgerService), new(testhelpers.MockCooldownService), &scriptedRandom{}, settings)
		_, err := games.Rob(context.Background(), actor, actor, gameNow)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("on cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, actor, entities.CooldownRob, settings.RobCooldown, gameNow).
			Return(&interfaces.CooldownResult{Remaining: 30 * time.Minute}, nil)

		games := NewGamesService(new(testhelpers.MockLedgerService), cooldowns, &scriptedRandom{}, settings)
		_, err := games.Rob(ctx, actor, target, gameNow)

		var cooldownErr *domain.CooldownError
		require.ErrorAs(t, err, &cooldownErr)
		assert.Equal(t, 30*time.Minute, cooldownErr.Remaining)
	})

	t.Run("poor target does not consume cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, actor, entities.CooldownRob, settings.RobCooldown, gameNow).Return(allowed(), nil)
		ledger := new(testhelpers.MockLedgerService)
		ledger.On("LockBalance", ctx, actor).Return(int64(5000), nil)
		ledger.On("LockBalance", ctx, target).Return(int64(999), nil)

		games := NewGamesService(ledger, cooldowns, &scriptedRandom{}, settings)
		_, err := games.Rob(ctx, actor, target, gameNow)

		assert.ErrorIs(t, err, domain.ErrTargetTooPoor)
		cooldowns.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success transfers share of target balance", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, actor, entities.CooldownRob, settings.RobCooldown, gameNow).Return(allowed(), nil)
		cooldowns.On("Record", ctx, actor, entities.CooldownRob, gameNow).Return(nil)
		ledger := new(testhelpers.MockLedgerService)
		ledger.On("LockBalance", ctx, actor).Return(int64(0), nil)
		ledger.On("LockBalance", ctx, target).Return(int64(10000), nil)
		// 10 + 10 = 20 percent
		ledger.On("Add", ctx, actor, int64(2000), entities.TransactionTypeRobGain, mock.Anything).Return(int64(2000), nil)
		ledger.On("Add", ctx, target, int64(-2000), entities.TransactionTypeRobVictim, mock.Anything).Return(int64(8000), nil)

		games := NewGamesService(ledger, cooldowns, &scriptedRandom{floats: []float64{0.1}, ints: []int{10}}, settings)
		result, err := games.Rob(ctx, actor, target, gameNow)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, int64(2000), result.Amount)
		assert.Equal(t, int64(8000), result.TargetBalance)
		cooldowns.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("failure fines the actor and still consumes cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, actor, entities.CooldownRob, settings.RobCooldown, gameNow).Return(allowed(), nil)
		cooldowns.On("Record", ctx, actor, entities.CooldownRob, gameNow).Return(nil)
		ledger := new(testhelpers.MockLedgerService)
		ledger.On("LockBalance", ctx, actor).Return(int64(1000), nil)
		ledger.On("LockBalance", ctx, target).Return(int64(3000), nil)
		ledger.On("Add", ctx, actor, int64(-350), entities.TransactionTypeRobFine, mock.Anything).Return(int64(650), nil)

		games := NewGamesService(ledger, cooldowns, &scriptedRandom{floats: []float64{0.4}, ints: []int{250}}, settings)
		result, err := games.Rob(ctx, actor, target, gameNow)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, int64(350), result.Amount)
		assert.Equal(t, int64(650), result.ActorBalance)
		cooldowns.AssertExpectations(t)
	})
}

func TestGamesService_Daily(t *testing.T) {
	t.Parallel()
	settings := DefaultGameSettings()

	t.Run("claims reward and records cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, int64(1), entities.CooldownDaily, 24*time.Hour, gameNow).Return(allowed(), nil)
		cooldowns.On("Record", ctx, int64(1), entities.CooldownDaily, gameNow).Return(nil)
		ledger := new(testhelpers.MockLedgerService)
		ledger.On("Add", ctx, int64(1), int64(500), entities.TransactionTypeDaily, mock.Anything).Return(int64(500), nil)

		games := NewGamesService(ledger, cooldowns, &scriptedRandom{}, settings)
		result, err := games.Daily(ctx, 1, gameNow)

		require.NoError(t, err)
		assert.Equal(t, int64(500), result.Amount)
		cooldowns.AssertExpectations(t)
	})

	t.Run("denied while on cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cooldowns := new(testhelpers.MockCooldownService)
		cooldowns.On("Acquire", ctx, int64(1), entities.CooldownDaily, 24*time.Hour, gameNow).
			Return(&interfaces.CooldownResult{Remaining: 3 * time.Hour}, nil)
		ledger := new(testhelpers.MockLedgerService)

		games := NewGamesService(ledger, cooldowns, &scriptedRandom{}, settings)
		_, err := games.Daily(ctx, 1, gameNow)

		assert.ErrorIs(t, err, domain.ErrOnCooldown)
		ledger.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGamesService_Work(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	settings := DefaultGameSettings()

	cooldowns := new(testhelpers.MockCooldownService)
	cooldowns.On("Acquire", ctx, int64(1), entities.CooldownWork, time.Hour, gameNow).Return(allowed(), nil)
	cooldowns.On("Record", ctx, int64(1), entities.CooldownWork, gameNow).Return(nil)
	ledger := new(testhelpers.MockLedgerService)
	ledger.On("Add", ctx, int64(1), int64(300), entities.TransactionTypeWork, map[string]any{"job": WorkJobs[2]}).Return(int64(300), nil)

	// 200 is the top of the 201-value pay range, 2 picks the third job
	games := NewGamesService(ledger, cooldowns, &scriptedRandom{ints: []int{200, 2}}, settings)
	result, err := games.Work(ctx, 1, gameNow)

	require.NoError(t, err)
	assert.Equal(t, int64(300), result.Amount)
	assert.Equal(t, WorkJobs[2], result.Job)
}

func TestGamesService_StoreFailureIsNotMasked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cooldowns := new(testhelpers.MockCooldownService)
	storeErr := domain.StoreError("get cooldown", errors.New("timeout"))
	cooldowns.On("Acquire", ctx, int64(1), entities.CooldownWork, time.Hour, gameNow).Return(nil, storeErr)

	games := NewGamesService(new(testhelpers.MockLedgerService), cooldowns, &scriptedRandom{}, DefaultGameSettings())
	_, err := games.Work(ctx, 1, gameNow)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
