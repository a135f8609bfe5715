package marriage

import (
	"fmt"

	"nexus/bot/common"
	"nexus/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func proposalEmbed(proposerName string, targetID int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💍 Marriage proposal",
		Description: fmt.Sprintf("%s, **%s** has asked you to marry them.\n\nYou have %d seconds to answer.",
			common.GetUserMention(targetID), proposerName, int(common.ProposalTimeout.Seconds())),
		Color: common.ColorPink,
	}
}

func proposalButtons(token string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Accept", Style: discordgo.SuccessButton, CustomID: buttonID(actionAccept, token), Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
				discordgo.Button{Label: "Reject", Style: discordgo.DangerButton, CustomID: buttonID(actionReject, token), Emoji: &discordgo.ComponentEmoji{Name: "❌"}},
			},
		},
	}
}

func marriedEmbed(proposerName, targetName string) *discordgo.MessageEmbed {
	return common.SuccessEmbed("Just married!", fmt.Sprintf("**%s** and **%s** are now married! 🎉", proposerName, targetName))
}

func rejectedEmbed(targetName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💔 Proposal rejected",
		Description: fmt.Sprintf("**%s** turned the proposal down.", targetName),
		Color:       common.ColorMuted,
	}
}

func expiredEmbed(what string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⌛ Expired",
		Description: fmt.Sprintf("The %s expired without an answer.", what),
		Color:       common.ColorMuted,
	}
}

func divorceEmbed(partnerName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💔 Divorce",
		Description: fmt.Sprintf("Are you sure you want to divorce **%s**?\n\nConfirm within %d seconds.",
			partnerName, int(common.DivorceConfirmTimeout.Seconds())),
		Color: common.ColorDanger,
	}
}

func divorceButtons(token string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Confirm", Style: discordgo.DangerButton, CustomID: buttonID(actionConfirm, token), Emoji: &discordgo.ComponentEmoji{Name: "💔"}},
				discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: buttonID(actionCancel, token)},
			},
		},
	}
}

func divorcedEmbed(userName, partnerName string) *discordgo.MessageEmbed {
	return common.SuccessEmbed("Divorced", fmt.Sprintf("**%s** and **%s** are no longer married.", userName, partnerName))
}

func divorceCancelledEmbed(partnerName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❤️ Divorce cancelled",
		Description: fmt.Sprintf("You are still married to **%s**.", partnerName),
		Color:       common.ColorPink,
	}
}

func spouseEmbed(userName, partnerName string, record *entities.MarriageRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("❤️ %s's marriage", userName),
		Description: fmt.Sprintf("Married to **%s**.", partnerName),
		Color:       common.ColorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Anniversary", Value: common.FormatDiscordTimestamp(record.MarriageDate, "D"), Inline: true},
			{Name: "Together since", Value: common.FormatDiscordTimestamp(record.MarriageDate, "R"), Inline: true},
		},
	}
}
