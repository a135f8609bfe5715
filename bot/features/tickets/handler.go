package tickets

import (
	"context"
	"fmt"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const ticketAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// handleSetup stores the support role and category (administrators only)
func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, common.InteractionUserID(i)) {
		common.HandleError(s, i, domain.ErrPermissionDenied, false)
		return
	}
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	roleID := options.Snowflake("support_role")
	categoryID := options.Snowflake("category")

	if channel, err := s.State.Channel(common.FormatDiscordID(categoryID)); err == nil && channel.Type != discordgo.ChannelTypeGuildCategory {
		common.HandleError(s, i, domain.NewValidationError("category", "Pick a category, not a channel."), false)
		return
	}

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		_, err := services.NewTicketService(uow.TicketConfigRepository()).Setup(ctx, guildID, roleID, categoryID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to save ticket setup"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, common.SuccessEmbed("Tickets configured",
		fmt.Sprintf("Tickets will be created under <#%d> and visible to %s.", categoryID, common.GetRoleMention(roleID))), nil, true); err != nil {
		log.Errorf("Failed to respond to ticket setup: %v", err)
	}
}

// handleOpen creates a private channel for the caller and the support role
func (f *Feature) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var config *entities.TicketConfig
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		config, err = services.NewTicketService(uow.TicketConfigRepository()).GetConfig(ctx, guildID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	user := common.InteractionUser(i)
	name := services.TicketChannelName(user.Username)
	categoryID := common.FormatDiscordID(config.TicketCategoryID)

	if channels, err := s.GuildChannels(i.GuildID); err == nil {
		if existing, ok := lo.Find(channels, func(c *discordgo.Channel) bool {
			return c.ParentID == categoryID && c.Name == name
		}); ok {
			common.HandleError(s, i, common.NewUserError(
				fmt.Sprintf("You already have an open ticket: <#%s>.", existing.ID), "duplicate ticket"), false)
			return
		}
	}

	topic := options.String("topic", "")
	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             categoryID,
		Topic:                common.Truncate(topic, 1024),
		PermissionOverwrites: ticketOverwrites(i.GuildID, user.ID, common.FormatDiscordID(config.SupportRoleID), s.State.User.ID),
	})
	if err != nil {
		if common.IsPermissionError(err) {
			common.HandleError(s, i, err, false)
			return
		}
		common.HandleError(s, i, common.NewSystemError(err, "failed to create ticket channel"), false)
		return
	}

	welcome := &discordgo.MessageEmbed{
		Title:       "🎫 Ticket opened",
		Description: fmt.Sprintf("Hi %s, the support team will be with you shortly.\nUse `/ticket close` here when you are done.", user.Mention()),
		Color:       common.ColorInfo,
	}
	if topic != "" {
		welcome.Fields = []*discordgo.MessageEmbedField{{Name: "Topic", Value: common.Truncate(topic, 1024)}}
	}
	_, err = s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: common.GetRoleMention(config.SupportRoleID),
		Embeds:  []*discordgo.MessageEmbed{welcome},
	})
	if err != nil {
		log.WithError(err).WithField("channel_id", channel.ID).Warn("Failed to post ticket welcome")
	}

	if err := common.RespondWithEmbed(s, i, common.SuccessEmbed("Ticket created", fmt.Sprintf("Your ticket is open: <#%s>.", channel.ID)), nil, true); err != nil {
		log.Errorf("Failed to respond to ticket open: %v", err)
	}
}

// handleClose deletes the ticket channel the command was used in. Only the
// opener, the support role or an administrator may close it.
func (f *Feature) handleClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	channel, err := s.State.Channel(i.ChannelID)
	if err != nil {
		channel, err = s.Channel(i.ChannelID)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to load channel"), false)
			return
		}
	}

	var config *entities.TicketConfig
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		config, err = services.NewTicketService(uow.TicketConfigRepository()).GetConfig(ctx, guildID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	callerID := common.InteractionUserID(i)
	var roles []string
	if i.Member != nil {
		roles = i.Member.Roles
	}
	isAdmin := false
	if !isTicketCloser(channel, config, callerID, roles) {
		isAdmin = common.IsUserAdmin(s, i.GuildID, callerID)
	}

	if err := canCloseTicket(channel, config, callerID, roles, isAdmin); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, &discordgo.MessageEmbed{
		Description: "🔒 Closing this ticket...",
		Color:       common.ColorMuted,
	})

	if _, err := s.ChannelDelete(channel.ID); err != nil {
		log.WithError(err).WithField("channel_id", channel.ID).Error("Failed to delete ticket channel")
		common.FollowUpWithError(s, i, "I could not delete this channel. Check my permissions.")
	}
}

// canCloseTicket requires a ticket-named channel under the configured category
// and a caller who opened it, holds the support role or is an administrator
func canCloseTicket(channel *discordgo.Channel, config *entities.TicketConfig, callerID string, roles []string, isAdmin bool) error {
	if !services.IsTicketChannel(channel.Name) || channel.ParentID != common.FormatDiscordID(config.TicketCategoryID) {
		return domain.NewValidationError("channel", "This command only works inside a ticket channel.")
	}
	if isAdmin || isTicketCloser(channel, config, callerID, roles) {
		return nil
	}
	return domain.ErrPermissionDenied
}

// isTicketCloser reports whether the caller is the ticket's opener or support staff
func isTicketCloser(channel *discordgo.Channel, config *entities.TicketConfig, callerID string, roles []string) bool {
	if callerID == "" {
		return false
	}
	if lo.Contains(roles, common.FormatDiscordID(config.SupportRoleID)) {
		return true
	}
	// The opener is the only member overwrite that is not the bot, and the bot never runs commands
	return lo.ContainsBy(channel.PermissionOverwrites, func(o *discordgo.PermissionOverwrite) bool {
		return o.Type == discordgo.PermissionOverwriteTypeMember && o.ID == callerID
	})
}

// ticketOverwrites hides the channel from @everyone and opens it to the opener, support and the bot
func ticketOverwrites(guildID, openerID, supportRoleID, botID string) []*discordgo.PermissionOverwrite {
	return []*discordgo.PermissionOverwrite{
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: openerID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketAccess},
		{ID: supportRoleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: ticketAccess},
		{ID: botID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketAccess | discordgo.PermissionManageChannels},
	}
}
