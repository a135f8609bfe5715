package common

import "time"

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorError   = 0xED4245 // Red (alias for ColorDanger)
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
	ColorPink    = 0xE91E63
	ColorMuted   = 0x607D8B
)

// Interaction waits
const (
	ProposalTimeout       = 60 * time.Second
	DivorceConfirmTimeout = 20 * time.Second
)

// InvitePermissions is the permission integer requested by /invite
const InvitePermissions int64 = 2422992118
