package moderation

import (
	"nexus/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature carries out moderation commands against Discord and records them
type Feature struct {
	session      *discordgo.Session
	uowFactory   application.UnitOfWorkFactory
	muteRoleName string
}

// NewFeature creates a new moderation feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, muteRoleName string) *Feature {
	return &Feature{
		session:      session,
		uowFactory:   uowFactory,
		muteRoleName: muteRoleName,
	}
}

// HandleCommand routes moderation commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "ban":
		f.handleBan(s, i).respond(s, i, false)
	case "unban":
		f.handleUnban(s, i).respond(s, i, false)
	case "kick":
		f.handleKick(s, i).respond(s, i, false)
	case "mute":
		f.handleMute(s, i).respond(s, i, false)
	case "unmute":
		f.handleUnmute(s, i).respond(s, i, false)
	case "warn":
		f.handleWarn(s, i).respond(s, i, false)
	case "warnings":
		f.handleWarnings(s, i).respond(s, i, false)
	case "clearwarnings":
		f.handleClearWarnings(s, i).respond(s, i, false)
	case "purge":
		f.handlePurge(s, i)
	default:
		log.Warnf("Unknown moderation command: %s", name)
	}
}
