package settings

import (
	"context"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleGuildCreate makes sure every guild the bot sits in has a config row
func (f *Feature) HandleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := common.ParseGuildID(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	ctx := context.Background()
	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		_, err := svc.GetOrCreate(ctx, guildID)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", g.ID).Error("Failed to initialise guild config")
		return
	}

	log.WithFields(log.Fields{
		"guild_id": g.ID,
		"name":     g.Name,
	}).Info("Guild available")
}

// HandleMemberJoin assigns the configured autorole
func (f *Feature) HandleMemberJoin(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	guildID, err := common.ParseGuildID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	ctx := context.Background()
	var config *entities.GuildConfig
	err = f.withConfig(ctx, guildID, func(svc interfaces.GuildConfigService) error {
		config, err = svc.GetOrCreate(ctx, guildID)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to load guild config for autorole")
		return
	}
	if !config.HasAutorole() {
		return
	}

	roleID := common.FormatDiscordID(*config.AutoroleID)
	if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, roleID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": m.GuildID,
			"user_id":  m.User.ID,
			"role_id":  roleID,
		}).Warn("Failed to assign autorole")
	}
}

// HandleMessageDelete logs deleted messages the session still had cached.
// Messages from before startup or outside the cache are not logged.
func (f *Feature) HandleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	deleted := m.BeforeDelete
	if deleted == nil || deleted.Author == nil || deleted.Author.Bot || m.GuildID == "" {
		return
	}

	guildID, err := common.ParseGuildID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}
	authorID, err := common.ParseUserID(deleted.Author.ID)
	if err != nil {
		log.Errorf("Failed to parse author ID %s: %v", deleted.Author.ID, err)
		return
	}

	ctx := context.Background()
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		moderation := services.NewModerationService(guildID, uow.TempMuteRepository(), uow.WarningRepository(), uow.EventBus())
		return moderation.RecordAction(ctx, entities.ModerationMessageDelete, authorID, 0,
			common.Truncate(deleted.Content, 1000), "<#"+m.ChannelID+">")
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to record deleted message")
	}
}
