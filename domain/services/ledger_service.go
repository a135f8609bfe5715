package services

import (
	"context"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/utils"
)

type ledgerService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewLedgerService creates a new economy ledger
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// GetBalance returns the user's balance without materializing an account
func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	account, err := s.accountRepo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	return account.Balance, nil
}

// Add applies delta with no floor. Callers that must not overdraw use
// RequireFunds or Debit first.
func (s *ledgerService) Add(ctx context.Context, userID int64, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	account, err := s.accountRepo.AddBalance(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:              userID,
		GuildID:             account.GuildID,
		BalanceBefore:       account.Balance - delta,
		BalanceAfter:        account.Balance,
		ChangeAmount:        delta,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// Set overwrites the balance and returns the resulting value
func (s *ledgerService) Set(ctx context.Context, userID int64, amount int64) (int64, error) {
	current, err := s.accountRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}

	account, err := s.accountRepo.SetBalance(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to set balance: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		GuildID:         account.GuildID,
		BalanceBefore:   current.Balance,
		BalanceAfter:    account.Balance,
		ChangeAmount:    account.Balance - current.Balance,
		TransactionType: entities.TransactionTypeAdminSet,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return 0, err
	}

	return account.Balance, nil
}

func (s *ledgerService) LockBalance(ctx context.Context, userID int64) (int64, error) {
	account, err := s.accountRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}
	return account.Balance, nil
}

func (s *ledgerService) RequireFunds(ctx context.Context, userID int64, amount int64) (int64, error) {
	balance, err := s.LockBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return balance, &domain.InsufficientFundsError{Balance: balance, Required: amount}
	}
	return balance, nil
}

// Debit subtracts a positive amount the user can cover
func (s *ledgerService) Debit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount", "amount must be positive")
	}
	if _, err := s.RequireFunds(ctx, userID, amount); err != nil {
		return 0, err
	}
	return s.Add(ctx, userID, -amount, txType, metadata)
}
