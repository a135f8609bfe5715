package leveling

import (
	"nexus/application"
	"nexus/domain/interfaces"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// LeaderboardAttachment is the file name of the rendered leaderboard
const LeaderboardAttachment = "leaderboard.png"

// RankCardAttachment is the file name of the rendered rank card
const RankCardAttachment = "rank.png"

// Feature awards chat XP and shows ranks and the leaderboard
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	cache      interfaces.LeaderboardCache
	settings   services.ProgressionSettings
	images     *ImageGenerator
}

// NewFeature creates a new leveling feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, cache interfaces.LeaderboardCache, settings services.ProgressionSettings) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		cache:      cache,
		settings:   settings,
		images:     NewImageGenerator(),
	}
}

// HandleCommand routes leveling commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch name := i.ApplicationCommandData().Name; name {
	case "rank":
		f.handleRank(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	default:
		log.Warnf("Unknown leveling command: %s", name)
	}
}
