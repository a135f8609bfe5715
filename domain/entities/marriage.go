package entities

import "time"

// MarriageRecord stores a married pair with the smaller user ID first
type MarriageRecord struct {
	User1ID      int64     `db:"user1_id"`
	User2ID      int64     `db:"user2_id"`
	GuildID      int64     `db:"guild_id"`
	MarriageDate time.Time `db:"marriage_date"`
}

// CanonicalPair orders two user IDs so the smaller comes first
func CanonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// PartnerOf returns the other member of the pair, or 0 if userID is not in it
func (m *MarriageRecord) PartnerOf(userID int64) int64 {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return 0
}
