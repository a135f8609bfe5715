package economy

import (
	"nexus/application"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles balance, daily, work and the admin balance override
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	random     services.RandomSource
	settings   services.GameSettings
}

// NewFeature creates a new economy feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, random services.RandomSource, settings services.GameSettings) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		random:     random,
		settings:   settings,
	}
}

// HandleCommand routes economy commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "work":
		f.handleWork(s, i)
	case "setmoney":
		f.handleSetMoney(s, i)
	default:
		log.Warnf("Unknown economy command: %s", name)
	}
}
