package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nexus/bot/common"
	"nexus/bot/features/moderation"
	"nexus/domain/entities"
	"nexus/domain/events"

	"github.com/bwmarrin/discordgo"
)

// discordPoster implements application.DiscordPoster and application.MuteRoleManager
type discordPoster struct {
	session      *discordgo.Session
	muteRoleName string
}

func newDiscordPoster(session *discordgo.Session, muteRoleName string) *discordPoster {
	return &discordPoster{
		session:      session,
		muteRoleName: muteRoleName,
	}
}

// PostLevelUp congratulates the user in the channel that earned the level
func (p *discordPoster) PostLevelUp(ctx context.Context, channelID, userID, level int64) error {
	_, err := p.session.ChannelMessageSend(common.FormatDiscordID(channelID), levelUpMessage(userID, level))
	if err != nil {
		return fmt.Errorf("failed to post level up: %w", err)
	}
	return nil
}

// PostModerationLog writes a moderation entry to the log channel
func (p *discordPoster) PostModerationLog(ctx context.Context, channelID int64, event events.ModerationEvent) error {
	_, err := p.session.ChannelMessageSendEmbed(common.FormatDiscordID(channelID), moderationLogEmbed(event))
	if err != nil {
		return fmt.Errorf("failed to post moderation log: %w", err)
	}
	return nil
}

// RemoveMuteRole lifts the mute role. A missing role or member means there is nothing to remove.
func (p *discordPoster) RemoveMuteRole(ctx context.Context, guildID, userID int64) error {
	guild := common.FormatDiscordID(guildID)
	role, err := moderation.FindMuteRole(p.session, guild, p.muteRoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return nil
	}

	err = p.session.GuildMemberRoleRemove(guild, common.FormatDiscordID(userID), role.ID)
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove mute role: %w", err)
	}
	return nil
}

func levelUpMessage(userID, level int64) string {
	return fmt.Sprintf("🎉 Congratulations %s! You reached level **%d**.", common.GetUserMention(userID), level)
}

type logStyle struct {
	title string
	color int
}

var logStyles = map[entities.ModerationAction]logStyle{
	entities.ModerationBan:           {"🔨 User banned", common.ColorDanger},
	entities.ModerationUnban:         {"🕊️ User unbanned", common.ColorInfo},
	entities.ModerationKick:          {"👟 User kicked", common.ColorWarning},
	entities.ModerationMute:          {"🔇 User muted", common.ColorMuted},
	entities.ModerationUnmute:        {"🔊 User unmuted", common.ColorWarning},
	entities.ModerationWarn:          {"⚠️ New warning", common.ColorGold},
	entities.ModerationClearWarns:    {"🧹 Warnings cleared", common.ColorInfo},
	entities.ModerationPurge:         {"🗑️ Messages purged", common.ColorMuted},
	entities.ModerationMessageDelete: {"🗑️ Message deleted", common.ColorWarning},
}

func moderationLogEmbed(event events.ModerationEvent) *discordgo.MessageEmbed {
	style, ok := logStyles[event.Action]
	if !ok {
		style = logStyle{title: "🛡️ " + string(event.Action), color: common.ColorInfo}
	}

	moderator := "Automatic"
	if event.ModeratorID != 0 {
		moderator = common.GetUserMention(event.ModeratorID)
	}

	var lines []string
	switch event.Action {
	case entities.ModerationMessageDelete:
		lines = append(lines,
			"**Author:** "+common.GetUserMention(event.TargetID),
			"**Channel:** "+event.Detail,
			"**Content:**\n"+event.Reason)
	case entities.ModerationPurge:
		lines = append(lines,
			"**Moderator:** "+moderator,
			"**Deleted:** "+event.Detail)
	default:
		lines = append(lines,
			"**User:** "+common.GetUserMention(event.TargetID),
			"**Moderator:** "+moderator)
		if event.Reason != "" {
			lines = append(lines, "**Reason:** "+event.Reason)
		}
		if event.Detail != "" {
			label := "Detail"
			if event.Action == entities.ModerationMute {
				label = "Duration"
			}
			lines = append(lines, fmt.Sprintf("**%s:** %s", label, event.Detail))
		}
	}

	return common.ModerationEmbed(style.title, strings.Join(lines, "\n"), style.color)
}
