package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Earnings
	TransactionTypeDaily TransactionType = "daily"
	TransactionTypeWork  TransactionType = "work"

	// Games
	TransactionTypeFlipWin   TransactionType = "flip_win"
	TransactionTypeFlipLoss  TransactionType = "flip_loss"
	TransactionTypeSlotsWin  TransactionType = "slots_win"
	TransactionTypeSlotsLoss TransactionType = "slots_loss"

	// Rob
	TransactionTypeRobGain   TransactionType = "rob_gain"
	TransactionTypeRobVictim TransactionType = "rob_victim"
	TransactionTypeRobFine   TransactionType = "rob_fine"

	// Shop
	TransactionTypeRolePurchase TransactionType = "role_purchase"

	// Administrative
	TransactionTypeAdminSet TransactionType = "admin_set"
)

// IsGameType returns true if the transaction came from a game of chance
func (tt TransactionType) IsGameType() bool {
	switch tt {
	case TransactionTypeFlipWin, TransactionTypeFlipLoss, TransactionTypeSlotsWin, TransactionTypeSlotsLoss:
		return true
	}
	return false
}

// IsRobType returns true if the transaction was produced by a rob attempt
func (tt TransactionType) IsRobType() bool {
	return tt == TransactionTypeRobGain ||
		tt == TransactionTypeRobVictim ||
		tt == TransactionTypeRobFine
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
