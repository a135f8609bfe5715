package games

import (
	"nexus/application"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the coin flip, slots and rob games
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	random     services.RandomSource
	settings   services.GameSettings
}

// NewFeature creates a new games feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, random services.RandomSource, settings services.GameSettings) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		random:     random,
		settings:   settings,
	}
}

// HandleCommand routes game commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "flip":
		f.handleFlip(s, i)
	case "slots":
		f.handleSlots(s, i)
	case "rob":
		f.handleRob(s, i)
	default:
		log.Warnf("Unknown games command: %s", name)
	}
}
