package testutil

import (
	"time"

	"nexus/domain/entities"
)

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBalanceHistoryWithAmounts creates a test balance history with specific amounts
func CreateTestBalanceHistoryWithAmounts(userID int64, before, after, change int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	history := CreateTestBalanceHistory(userID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = change
	return history
}

// CreateTestProgression creates a progression record with the given xp and level
func CreateTestProgression(userID, xp, level int64, lastMessage time.Time) *entities.ProgressionRecord {
	return &entities.ProgressionRecord{
		UserID:          userID,
		XP:              xp,
		Level:           level,
		LastMessageTime: lastMessage,
	}
}

// CreateTestMarriage creates a marriage record dated now
func CreateTestMarriage(user1ID, user2ID int64) *entities.MarriageRecord {
	return &entities.MarriageRecord{
		User1ID:      user1ID,
		User2ID:      user2ID,
		MarriageDate: time.Now().UTC().Truncate(time.Second),
	}
}

// CreateTestWarning creates a warning issued by moderatorID
func CreateTestWarning(userID, moderatorID int64, reason string) *entities.Warning {
	return &entities.Warning{
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
	}
}
