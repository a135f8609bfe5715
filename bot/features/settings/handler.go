package settings

import (
	"context"
	"fmt"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/interfaces"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// adminGuildID checks administrator rights and parses the guild
func adminGuildID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, error) {
	if !common.IsUserAdmin(s, i.GuildID, common.InteractionUserID(i)) {
		return 0, domain.ErrPermissionDenied
	}
	guildID, _, err := common.InteractionIDs(i)
	return guildID, err
}

func (f *Feature) withConfig(ctx context.Context, guildID int64, fn func(svc interfaces.GuildConfigService) error) error {
	return common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return fn(services.NewGuildConfigService(uow.GuildConfigRepository()))
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.WithError(err).WithField("command", common.InteractionName(i)).Error("Failed to respond to interaction")
	}
}

// handleSetLogs handles the /setlogs command
func (f *Feature) handleSetLogs(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := adminGuildID(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	channelID := options.Snowflake("channel")

	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		_, err := svc.SetLogChannel(ctx, guildID, channelID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to set log channel"), false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Info("Log channel configured")

	respondEphemeral(s, i, common.SuccessEmbed("Logs configured",
		fmt.Sprintf("Moderation logs will be sent to %s.", common.GetChannelMention(channelID))))
}

// handleSetReport handles the /setreport command. Omitting the role clears it.
func (f *Feature) handleSetReport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := adminGuildID(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	channelID := options.Snowflake("channel")
	var roleID *int64
	if id := options.Snowflake("role"); id != 0 {
		roleID = &id
	}

	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		_, err := svc.SetReportChannel(ctx, guildID, channelID, roleID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to set report channel"), false)
		return
	}

	roleMention := "none"
	if roleID != nil {
		roleMention = common.GetRoleMention(*roleID)
	}
	respondEphemeral(s, i, common.SuccessEmbed("Reports configured",
		fmt.Sprintf("Reports go to %s and ping %s.", common.GetChannelMention(channelID), roleMention)))
}

// handleSetAutorole handles the /setautorole command
func (f *Feature) handleSetAutorole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := adminGuildID(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	roleID := options.Snowflake("role")

	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		_, err := svc.SetAutorole(ctx, guildID, roleID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to set autorole"), false)
		return
	}

	respondEphemeral(s, i, common.SuccessEmbed("Autorole configured",
		fmt.Sprintf("New members will receive %s.", common.GetRoleMention(roleID))))
}

// handleReport forwards a member report to the configured report channel
func (f *Feature) handleReport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, reporterID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	reported := options.User(i, "user")
	reason := options.String("reason", "")
	if reported == nil || reported.Bot || reported.ID == common.InteractionUserID(i) {
		common.HandleError(s, i, domain.NewValidationError("user", "You cannot report yourself or a bot."), false)
		return
	}
	reportedID, err := common.ParseUserID(reported.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse reported user"), false)
		return
	}

	var channelID int64
	var roleID *int64
	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		config, err := svc.GetReportTarget(ctx, guildID)
		if err != nil {
			return err
		}
		channelID, roleID = *config.ReportChannelID, config.ReportRoleID
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	channelName := i.ChannelID
	if channel, err := s.State.Channel(i.ChannelID); err == nil {
		channelName = channel.Name
	}

	_, err = s.ChannelMessageSendComplex(common.FormatDiscordID(channelID), &discordgo.MessageSend{
		Content: reportContent(roleID),
		Embeds:  []*discordgo.MessageEmbed{reportEmbed(reportedID, reporterID, reason, channelName)},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: reportRoles(roleID),
		},
	})
	if err != nil {
		if common.IsPermissionError(err) {
			common.HandleError(s, i, err, false)
			return
		}
		common.HandleError(s, i, common.NewSystemError(err, "failed to deliver report"), false)
		return
	}

	respondEphemeral(s, i, common.SuccessEmbed("Report sent", "The moderators have received your report. Thank you."))
}

func reportContent(roleID *int64) string {
	if roleID == nil {
		return "**New report!**"
	}
	return common.GetRoleMention(*roleID)
}

func reportRoles(roleID *int64) []string {
	if roleID == nil {
		return nil
	}
	return []string{common.FormatDiscordID(*roleID)}
}

func reportEmbed(reportedID, reporterID int64, reason, channelName string) *discordgo.MessageEmbed {
	embed := common.ModerationEmbed("🚨 User report",
		fmt.Sprintf("**Reported:** %s (ID: `%d`)\n**Reported by:** %s\n**Reason:** %s",
			common.GetUserMention(reportedID), reportedID, common.GetUserMention(reporterID), common.Truncate(reason, 1500)),
		common.ColorDanger)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Sent from #" + channelName}
	return embed
}
