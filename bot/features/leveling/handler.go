package leveling

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// HandleMessage awards chat XP for a guild message. Level-up announcements
// are posted by the level-up event handler once the transaction commits.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	observability.GetMetrics().RecordMessageRead("guild_message")

	guildID, err := common.ParseGuildID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}
	userID, err := common.ParseUserID(m.Author.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", m.Author.ID, err)
		return
	}
	channelID, err := common.ParseSnowflake(m.ChannelID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", m.ChannelID, err)
		return
	}

	ctx := context.Background()
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		progression := services.NewProgressionService(uow.ProgressionRepository(), uow.EventBus(), f.settings)
		_, err := progression.AwardMessageXP(ctx, userID, channelID, time.Now())
		return err
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   m.GuildID,
			"channel_id": m.ChannelID,
			"user_id":    m.Author.ID,
		}).Error("Failed to award message XP")
	}
}

// handleRank shows the rank card of the caller or another member
func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	if target := options.Snowflake("user"); target != 0 {
		userID = target
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer rank response: %v", err)
		return
	}

	var info *interfaces.RankInfo
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		progression := services.NewProgressionService(uow.ProgressionRepository(), uow.EventBus(), f.settings)
		info, err = progression.GetRankInfo(ctx, userID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get rank"), true)
		return
	}

	name := common.GetDisplayNameInt64(s, i.GuildID, userID)
	embed := rankEmbed(name, info)

	png, err := f.images.GenerateRankCard(RankCard{
		Name:      name,
		Rank:      info.Rank,
		Level:     info.Record.Level,
		XP:        info.Record.XP,
		Threshold: info.NextThreshold,
	})
	var files []*discordgo.File
	if err != nil {
		// The embed alone still carries the numbers
		log.WithError(err).Warn("Failed to render rank card")
	} else {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + RankCardAttachment}
		files = []*discordgo.File{{Name: RankCardAttachment, ContentType: "image/png", Reader: bytes.NewReader(png)}}
	}

	if _, err := common.FollowUpWithEmbed(s, i, embed, files, false); err != nil {
		log.Errorf("Failed to send rank card: %v", err)
	}
}

// handleLeaderboard renders the guild's top members, served from the cache when warm
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer leaderboard response: %v", err)
		return
	}

	entries, err := f.loadLeaderboard(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get leaderboard"), true)
		return
	}

	rows := lo.Map(entries, func(entry *entities.RankEntry, _ int) LeaderboardRow {
		return LeaderboardRow{
			Rank:  entry.Rank,
			Name:  common.GetDisplayNameInt64(s, i.GuildID, entry.UserID),
			Level: entry.Level,
			XP:    entry.XP,
			Self:  entry.UserID == userID,
		}
	})

	embed := leaderboardEmbed(rows)
	var files []*discordgo.File
	if png, err := f.images.GenerateLeaderboard(rows); err != nil {
		log.WithError(err).Warn("Failed to render leaderboard")
	} else {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + LeaderboardAttachment}
		files = []*discordgo.File{{Name: LeaderboardAttachment, ContentType: "image/png", Reader: bytes.NewReader(png)}}
	}

	if _, err := common.FollowUpWithEmbed(s, i, embed, files, false); err != nil {
		log.Errorf("Failed to send leaderboard: %v", err)
	}
}

func (f *Feature) loadLeaderboard(ctx context.Context, guildID int64) ([]*entities.RankEntry, error) {
	limit := services.DefaultLeaderboardSize

	entries, ok, err := f.cache.Get(ctx, guildID, limit)
	if err != nil {
		log.WithError(err).WithField("guildID", guildID).Warn("Leaderboard cache read failed")
	}
	if ok {
		return entries, nil
	}

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		progression := services.NewProgressionService(uow.ProgressionRepository(), uow.EventBus(), f.settings)
		entries, err = progression.GetLeaderboard(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, guildID, limit, entries); err != nil {
		log.WithError(err).WithField("guildID", guildID).Warn("Leaderboard cache write failed")
	}
	return entries, nil
}

func rankEmbed(name string, info *interfaces.RankInfo) *discordgo.MessageEmbed {
	rank := "unranked"
	if info.Rank > 0 {
		rank = fmt.Sprintf("#%d", info.Rank)
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s", name),
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d", info.Record.Level), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("%d / %d", info.Record.XP, info.NextThreshold), Inline: true},
			{Name: "Rank", Value: rank, Inline: true},
		},
	}
}

func leaderboardEmbed(rows []LeaderboardRow) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: common.ColorGold,
	}
	if len(rows) == 0 {
		embed.Description = "Nobody has earned XP yet."
		return embed
	}
	lines := lo.Map(rows, func(row LeaderboardRow, _ int) string {
		return fmt.Sprintf("**%d.** %s · level %d (%d XP)", row.Rank, row.Name, row.Level, row.XP)
	})
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Top %d", len(lines))}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
