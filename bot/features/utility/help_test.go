package utility

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpEmbed(t *testing.T) {
	t.Parallel()

	categories := []HelpCategory{
		{Name: "Moderation", Emoji: "🛡️", Commands: []*discordgo.ApplicationCommand{
			{Name: "ban", Description: "Ban a member"},
		}},
		{Name: "Economy", Emoji: "💰"},
		{Name: "Utility", Commands: []*discordgo.ApplicationCommand{
			{Name: "ticket", Description: "Support tickets", Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "open", Description: "Open a ticket"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "close", Description: "Close a ticket"},
			}},
			{Name: "invite", Description: "Invite link", Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "unused", Description: "not a subcommand"},
			}},
		}},
	}

	embed := HelpEmbed(categories)

	// Empty categories are left out
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "🛡️ Moderation", embed.Fields[0].Name)
	assert.Equal(t, "`/ban` Ban a member", embed.Fields[0].Value)

	assert.Equal(t, "Utility", embed.Fields[1].Name)
	assert.Equal(t, "`/ticket open` Open a ticket\n`/ticket close` Close a ticket\n`/invite` Invite link", embed.Fields[1].Value)
}

func TestHelpEmbedTruncatesLongCategories(t *testing.T) {
	t.Parallel()

	var commands []*discordgo.ApplicationCommand
	for range 60 {
		commands = append(commands, &discordgo.ApplicationCommand{Name: "command", Description: "A fairly long description of what it does"})
	}

	embed := HelpEmbed([]HelpCategory{{Name: "Everything", Commands: commands}})
	require.Len(t, embed.Fields, 1)
	assert.LessOrEqual(t, len([]rune(embed.Fields[0].Value)), 1024)
}
