package entities

import "time"

// Account is a user's balance within one guild.
// An absent row reads as a zero balance.
type Account struct {
	UserID    int64     `db:"user_id"`
	GuildID   int64     `db:"guild_id"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford reports whether the balance covers amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}
