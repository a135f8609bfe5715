package marriage

import (
	"strings"

	"nexus/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ComponentPrefix marks the custom IDs of marriage buttons
const ComponentPrefix = "marriage_"

const (
	actionAccept  = "accept"
	actionReject  = "reject"
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

// Feature handles proposals, divorces and spouse lookups
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	pending    *PendingRegistry
}

// NewFeature creates a new marriage feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		pending:    NewPendingRegistry(),
	}
}

// HandleCommand routes marriage commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "marry":
		f.handleMarry(s, i)
	case "divorce":
		f.handleDivorce(s, i)
	case "spouse":
		f.handleSpouse(s, i)
	default:
		log.Warnf("Unknown marriage command: %s", name)
	}
}

// HandleInteraction routes proposal and divorce buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, token, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		log.Warnf("Unknown marriage component: %s", i.MessageComponentData().CustomID)
		return
	}
	f.handleButton(s, i, action, token)
}

func buttonID(action, token string) string {
	return ComponentPrefix + action + "_" + token
}

// parseCustomID splits marriage_<action>_<token>
func parseCustomID(customID string) (action, token string, ok bool) {
	parts := strings.SplitN(strings.TrimPrefix(customID, ComponentPrefix), "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}
	switch parts[0] {
	case actionAccept, actionReject, actionConfirm, actionCancel:
		return parts[0], parts[1], true
	}
	return "", "", false
}
