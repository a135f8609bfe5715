package tickets

import (
	"nexus/application"
	"nexus/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles support tickets as private channels
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new tickets feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /ticket subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, options := common.CommandOptions(i)
	switch sub {
	case "setup":
		f.handleSetup(s, i, options)
	case "open":
		f.handleOpen(s, i, options)
	case "close":
		f.handleClose(s, i)
	default:
		log.Warnf("Unknown ticket subcommand: %s", sub)
	}
}
