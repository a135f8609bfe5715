package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	FlipHeads = "cara"
	FlipTails = "cruz"

	// RobFloor is the minimum target balance worth robbing
	RobFloor int64 = 1000

	// RobSuccessChance is the probability that a rob attempt succeeds
	RobSuccessChance   = 0.4
	RobMinSharePercent = 10
	RobMaxSharePercent = 30
	RobMinFine         = 100
	RobMaxFine         = 500

	SlotsJackpotMultiplier int64 = 7
	SlotsPairMultiplier    int64 = 2
)

// SlotSymbols is the reel alphabet
var SlotSymbols = []string{"🍒", "🍇", "🍋", "7️⃣"}

// WorkJobs are the flavour labels shown for a work claim
var WorkJobs = []string{
	"writing code",
	"serving coffee",
	"walking dogs",
	"repairing computers",
	"designing logos",
}

var flipAliases = map[string]string{
	"cara":  FlipHeads,
	"heads": FlipHeads,
	"cruz":  FlipTails,
	"tails": FlipTails,
}

// GameSettings holds the reward and cooldown knobs of the economy games
type GameSettings struct {
	DailyReward   int64
	DailyCooldown time.Duration
	WorkMinPay    int64
	WorkMaxPay    int64
	WorkCooldown  time.Duration
	RobCooldown   time.Duration
}

// DefaultGameSettings returns the stock economy: 500 daily, 100-300 per hour of work, rob every 2h
func DefaultGameSettings() GameSettings {
	return GameSettings{
		DailyReward:   500,
		DailyCooldown: 24 * time.Hour,
		WorkMinPay:    100,
		WorkMaxPay:    300,
		WorkCooldown:  time.Hour,
		RobCooldown:   2 * time.Hour,
	}
}

type gamesService struct {
	ledger    interfaces.LedgerService
	cooldowns interfaces.CooldownService
	random    RandomSource
	settings  GameSettings
}

// NewGamesService creates a new games service
func NewGamesService(
	ledger interfaces.LedgerService,
	cooldowns interfaces.CooldownService,
	random RandomSource,
	settings GameSettings,
) interfaces.GamesService {
	return &gamesService{
		ledger:    ledger,
		cooldowns: cooldowns,
		random:    random,
		settings:  settings,
	}
}

// NormalizeFlipSide maps user input to cara or cruz
func NormalizeFlipSide(side string) (string, bool) {
	normalized, ok := flipAliases[strings.ToLower(strings.TrimSpace(side))]
	return normalized, ok
}

// SlotsMultiplier returns the payout multiple for a spin, or 0 for a loss.
// Only adjacent pairs count, so the first and last reel matching alone is a loss.
func SlotsMultiplier(reels [3]string) int64 {
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		return SlotsJackpotMultiplier
	case reels[0] == reels[1] || reels[1] == reels[2]:
		return SlotsPairMultiplier
	default:
		return 0
	}
}

// Flip bets amount on a coin side and pays even money
func (s *gamesService) Flip(ctx context.Context, userID int64, side string, amount int64) (*interfaces.FlipResult, error) {
	choice, ok := NormalizeFlipSide(side)
	if !ok {
		return nil, domain.NewValidationError("side", "choose cara or cruz")
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "amount must be positive")
	}

	if _, err := s.ledger.RequireFunds(ctx, userID, amount); err != nil {
		return nil, err
	}

	outcome := FlipHeads
	if s.random.Intn(2) == 1 {
		outcome = FlipTails
	}

	result := &interfaces.FlipResult{
		Choice:  choice,
		Outcome: outcome,
		Won:     outcome == choice,
		Amount:  amount,
	}

	delta, txType := -amount, entities.TransactionTypeFlipLoss
	if result.Won {
		delta, txType = amount, entities.TransactionTypeFlipWin
	}

	newBalance, err := s.ledger.Add(ctx, userID, delta, txType, map[string]any{
		"choice":  choice,
		"outcome": outcome,
	})
	if err != nil {
		return nil, err
	}
	result.NewBalance = newBalance

	return result, nil
}

// Slots spins three reels for stake
func (s *gamesService) Slots(ctx context.Context, userID int64, stake int64) (*interfaces.SlotsResult, error) {
	if stake <= 0 {
		return nil, domain.NewValidationError("amount", "amount must be positive")
	}

	if _, err := s.ledger.RequireFunds(ctx, userID, stake); err != nil {
		return nil, err
	}

	var reels [3]string
	for i := range reels {
		reels[i] = SlotSymbols[s.random.Intn(len(SlotSymbols))]
	}

	result := &interfaces.SlotsResult{
		Reels:      reels,
		Multiplier: SlotsMultiplier(reels),
	}

	txType := entities.TransactionTypeSlotsLoss
	result.Net = -stake
	if result.Multiplier > 0 {
		txType = entities.TransactionTypeSlotsWin
		result.Net = stake * result.Multiplier
	}

	newBalance, err := s.ledger.Add(ctx, userID, result.Net, txType, map[string]any{
		"reels": strings.Join(reels[:], " "),
		"stake": stake,
	})
	if err != nil {
		return nil, err
	}
	result.NewBalance = newBalance

	return result, nil
}

// Rob attempts to steal from target. A target under the floor is rejected
// before the cooldown is consumed; every attempt past the floor consumes it.
func (s *gamesService) Rob(ctx context.Context, actorID, targetID int64, now time.Time) (*interfaces.RobResult, error) {
	if actorID == targetID {
		return nil, domain.NewValidationError("target", "you cannot rob yourself")
	}

	check, err := s.cooldowns.Acquire(ctx, actorID, entities.CooldownRob, s.settings.RobCooldown, now)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, &domain.CooldownError{Action: string(entities.CooldownRob), Remaining: check.Remaining}
	}

	// Lock both accounts in ID order so opposite robberies cannot deadlock
	balances := make(map[int64]int64, 2)
	first, second := entities.CanonicalPair(actorID, targetID)
	for _, id := range []int64{first, second} {
		balance, err := s.ledger.LockBalance(ctx, id)
		if err != nil {
			return nil, err
		}
		balances[id] = balance
	}

	targetBalance := balances[targetID]
	if targetBalance < RobFloor {
		return nil, fmt.Errorf("%w: target has %d, needs %d", domain.ErrTargetTooPoor, targetBalance, RobFloor)
	}

	if err := s.cooldowns.Record(ctx, actorID, entities.CooldownRob, now); err != nil {
		return nil, err
	}

	result := &interfaces.RobResult{}
	if s.random.Float64() < RobSuccessChance {
		percent := int64(RobMinSharePercent + s.random.Intn(RobMaxSharePercent-RobMinSharePercent+1))
		result.Success = true
		result.Amount = targetBalance * percent / 100

		if result.ActorBalance, err = s.ledger.Add(ctx, actorID, result.Amount, entities.TransactionTypeRobGain, map[string]any{"target_id": targetID}); err != nil {
			return nil, err
		}
		if result.TargetBalance, err = s.ledger.Add(ctx, targetID, -result.Amount, entities.TransactionTypeRobVictim, map[string]any{"actor_id": actorID}); err != nil {
			return nil, err
		}
	} else {
		result.Amount = int64(RobMinFine + s.random.Intn(RobMaxFine-RobMinFine+1))
		result.TargetBalance = targetBalance

		if result.ActorBalance, err = s.ledger.Add(ctx, actorID, -result.Amount, entities.TransactionTypeRobFine, map[string]any{"target_id": targetID}); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"actorID":  actorID,
		"targetID": targetID,
		"success":  result.Success,
		"amount":   result.Amount,
	}).Debug("Rob attempt resolved")

	return result, nil
}

// Daily claims the daily reward
func (s *gamesService) Daily(ctx context.Context, userID int64, now time.Time) (*interfaces.RewardResult, error) {
	if err := s.requireCooldown(ctx, userID, entities.CooldownDaily, s.settings.DailyCooldown, now); err != nil {
		return nil, err
	}

	newBalance, err := s.ledger.Add(ctx, userID, s.settings.DailyReward, entities.TransactionTypeDaily, nil)
	if err != nil {
		return nil, err
	}

	if err := s.cooldowns.Record(ctx, userID, entities.CooldownDaily, now); err != nil {
		return nil, err
	}

	return &interfaces.RewardResult{
		Amount:     s.settings.DailyReward,
		NewBalance: newBalance,
	}, nil
}

// Work claims a random wage between the configured bounds
func (s *gamesService) Work(ctx context.Context, userID int64, now time.Time) (*interfaces.RewardResult, error) {
	if err := s.requireCooldown(ctx, userID, entities.CooldownWork, s.settings.WorkCooldown, now); err != nil {
		return nil, err
	}

	pay := s.settings.WorkMinPay + int64(s.random.Intn(int(s.settings.WorkMaxPay-s.settings.WorkMinPay+1)))
	job := WorkJobs[s.random.Intn(len(WorkJobs))]

	newBalance, err := s.ledger.Add(ctx, userID, pay, entities.TransactionTypeWork, map[string]any{"job": job})
	if err != nil {
		return nil, err
	}

	if err := s.cooldowns.Record(ctx, userID, entities.CooldownWork, now); err != nil {
		return nil, err
	}

	return &interfaces.RewardResult{
		Amount:     pay,
		Job:        job,
		NewBalance: newBalance,
	}, nil
}

func (s *gamesService) requireCooldown(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) error {
	check, err := s.cooldowns.Acquire(ctx, userID, action, window, now)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return &domain.CooldownError{Action: string(action), Remaining: check.Remaining}
	}
	return nil
}
