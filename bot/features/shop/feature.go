package shop

import (
	"nexus/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the role shop
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new shop feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes shop commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "shop":
		f.handleShop(s, i)
	case "buyrole":
		f.handleBuyRole(s, i)
	case "addshoprole":
		f.handleAddShopRole(s, i)
	case "removeshoprole":
		f.handleRemoveShopRole(s, i)
	default:
		log.Warnf("Unknown shop command: %s", name)
	}
}
