package entities

// TicketConfig holds where support tickets are created and who can see them
type TicketConfig struct {
	GuildID          int64 `db:"guild_id"`
	SupportRoleID    int64 `db:"support_role_id"`
	TicketCategoryID int64 `db:"ticket_category_id"`
}
