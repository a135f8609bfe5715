package settings

import (
	"nexus/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles guild configuration, reports and the guild lifecycle events
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new settings feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes settings commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "setlogs":
		f.handleSetLogs(s, i)
	case "setreport":
		f.handleSetReport(s, i)
	case "setautorole":
		f.handleSetAutorole(s, i)
	case "report":
		f.handleReport(s, i)
	default:
		log.Warnf("Unknown settings command: %s", name)
	}
}
