package moderation

import (
	"fmt"

	"nexus/bot/common"
	"nexus/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// Discord allows at most 25 fields per embed
const maxWarningFields = 25

func warningsEmbed(name string, warnings []*entities.Warning) *discordgo.MessageEmbed {
	if len(warnings) == 0 {
		return common.SuccessEmbed("Warnings", fmt.Sprintf("**%s** has no warnings.", name))
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📋 Warnings for %s", name),
		Color: common.ColorInfo,
	}
	shown := lo.Slice(warnings, 0, maxWarningFields)
	embed.Fields = lo.Map(shown, func(w *entities.Warning, n int) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Warning #%d (%s)", n+1, w.Timestamp.UTC().Format("02/01/2006 15:04")),
			Value: fmt.Sprintf("**Moderator:** %s\n**Reason:** %s", common.GetUserMention(w.ModeratorID), common.Truncate(w.Reason, 900)),
		}
	})
	if len(warnings) > len(shown) {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Showing %d of %d warnings", len(shown), len(warnings))}
	}
	return embed
}
