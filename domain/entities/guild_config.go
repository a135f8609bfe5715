package entities

// GuildConfig is the per-guild configuration row
type GuildConfig struct {
	GuildID         int64  `db:"guild_id"`
	LogChannelID    *int64 `db:"log_channel_id"`
	ReportChannelID *int64 `db:"report_channel_id"`
	ReportRoleID    *int64 `db:"report_role_id"`
	AutoroleID      *int64 `db:"autorole_id"`
}

// HasLogChannel checks if a log channel is configured
func (gc *GuildConfig) HasLogChannel() bool {
	return gc.LogChannelID != nil && *gc.LogChannelID > 0
}

// HasReportChannel checks if a report channel is configured
func (gc *GuildConfig) HasReportChannel() bool {
	return gc.ReportChannelID != nil && *gc.ReportChannelID > 0
}

// HasReportRole checks if a role is pinged on reports
func (gc *GuildConfig) HasReportRole() bool {
	return gc.ReportRoleID != nil && *gc.ReportRoleID > 0
}

// HasAutorole checks if new members receive a role
func (gc *GuildConfig) HasAutorole() bool {
	return gc.AutoroleID != nil && *gc.AutoroleID > 0
}
