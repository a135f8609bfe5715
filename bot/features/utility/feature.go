package utility

import (
	"fmt"
	"net/url"

	"nexus/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles small stateless commands
type Feature struct {
	session *discordgo.Session
	help    []HelpCategory
}

// NewFeature creates a new utility feature instance. help is the command
// guide served by /help.
func NewFeature(session *discordgo.Session, help []HelpCategory) *Feature {
	return &Feature{session: session, help: help}
}

// HandleCommand routes utility commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "invite":
		f.handleInvite(s, i)
	case "help":
		f.handleHelp(s, i)
	default:
		log.Warnf("Unknown utility command: %s", name)
	}
}

func (f *Feature) handleInvite(s *discordgo.Session, i *discordgo.InteractionCreate) {
	link := InviteURL(s.State.User.ID, common.InvitePermissions)

	embed := &discordgo.MessageEmbed{
		Title:       "📨 Invite me",
		Description: fmt.Sprintf("[Add me to your server](%s)", link),
		Color:       common.ColorPrimary,
	}
	button := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Invite", Style: discordgo.LinkButton, URL: link},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, []discordgo.MessageComponent{button}, false); err != nil {
		log.Errorf("Failed to respond to invite: %v", err)
	}
}

// InviteURL builds the OAuth2 link that adds the bot with its slash commands
func InviteURL(clientID string, permissions int64) string {
	query := url.Values{}
	query.Set("client_id", clientID)
	query.Set("permissions", fmt.Sprintf("%d", permissions))
	query.Set("scope", "bot applications.commands")
	return "https://discord.com/oauth2/authorize?" + query.Encode()
}
