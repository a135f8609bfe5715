package games

import (
	"fmt"
	"strings"

	"nexus/bot/common"
	"nexus/domain/interfaces"
	"nexus/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// flipEmbed renders a coin flip result
func flipEmbed(result *interfaces.FlipResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🪙 Coin flip",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your call", Value: result.Choice, Inline: true},
			{Name: "Result", Value: result.Outcome, Inline: true},
		},
	}
	if result.Won {
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("You won **%s**!", utils.FormatCoins(result.Amount))
	} else {
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("You lost **%s**.", utils.FormatCoins(result.Amount))
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Balance: " + utils.FormatCoins(result.NewBalance)}
	return embed
}

// slotsEmbed renders a slots spin
func slotsEmbed(result *interfaces.SlotsResult, stake int64) *discordgo.MessageEmbed {
	reels := "| " + strings.Join(result.Reels[:], " | ") + " |"

	embed := &discordgo.MessageEmbed{
		Title:  "🎰 Slots",
		Footer: &discordgo.MessageEmbedFooter{Text: "Balance: " + utils.FormatCoins(result.NewBalance)},
	}
	switch {
	case result.Multiplier > 0 && result.Net > 0:
		embed.Color = common.ColorGold
		embed.Description = fmt.Sprintf("%s\n\n**x%d!** You won **%s**.", reels, result.Multiplier, utils.FormatCoins(result.Net))
	default:
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("%s\n\nNo luck. You lost **%s**.", reels, utils.FormatCoins(stake))
	}
	return embed
}

// robEmbed renders a rob attempt
func robEmbed(result *interfaces.RobResult, actorID, targetID int64) *discordgo.MessageEmbed {
	if result.Success {
		return &discordgo.MessageEmbed{
			Title:       "🦹 Robbery",
			Description: fmt.Sprintf("%s robbed **%s** from %s!", common.GetUserMention(actorID), utils.FormatCoins(result.Amount), common.GetUserMention(targetID)),
			Color:       common.ColorSuccess,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Balance: " + utils.FormatCoins(result.ActorBalance)},
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "🚓 Caught",
		Description: fmt.Sprintf("%s got caught trying to rob %s and paid a **%s** fine.", common.GetUserMention(actorID), common.GetUserMention(targetID), utils.FormatCoins(result.Amount)),
		Color:       common.ColorDanger,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Balance: " + utils.FormatCoins(result.ActorBalance)},
	}
}
