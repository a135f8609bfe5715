package utility

import (
	"fmt"
	"strings"

	"nexus/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HelpCategory groups the commands shown under one heading of /help
type HelpCategory struct {
	Name     string
	Emoji    string
	Commands []*discordgo.ApplicationCommand
}

func (f *Feature) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RespondWithEmbed(s, i, HelpEmbed(f.help), nil, true); err != nil {
		log.Errorf("Failed to respond to help: %v", err)
	}
}

// HelpEmbed lists every category with one line per command. Commands built from
// subcommands list each subcommand on its own line.
func HelpEmbed(categories []HelpCategory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📖 Command guide",
		Description: "Everything I can do, grouped by topic.",
		Color:       common.ColorPrimary,
	}

	for _, category := range categories {
		var lines []string
		for _, cmd := range category.Commands {
			lines = append(lines, commandLines(cmd)...)
		}
		if len(lines) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  strings.TrimSpace(category.Emoji + " " + category.Name),
			Value: common.Truncate(strings.Join(lines, "\n"), 1024),
		})
	}

	return embed
}

func commandLines(cmd *discordgo.ApplicationCommand) []string {
	var lines []string
	for _, opt := range cmd.Options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			lines = append(lines, fmt.Sprintf("`/%s %s` %s", cmd.Name, opt.Name, opt.Description))
		}
	}
	if len(lines) > 0 {
		return lines
	}
	return []string{fmt.Sprintf("`/%s` %s", cmd.Name, cmd.Description)}
}
