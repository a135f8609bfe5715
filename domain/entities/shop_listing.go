package entities

// ShopListing is a role offered for sale in a guild
type ShopListing struct {
	GuildID int64 `db:"guild_id"`
	RoleID  int64 `db:"role_id"`
	Price   int64 `db:"price"`
}
