package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexus/application"
	"nexus/bot/features/economy"
	"nexus/bot/features/games"
	"nexus/bot/features/leveling"
	"nexus/bot/features/marriage"
	"nexus/bot/features/moderation"
	"nexus/bot/features/settings"
	"nexus/bot/features/shop"
	"nexus/bot/features/tickets"
	"nexus/bot/features/utility"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Messages kept per channel so deletions can be logged with their content
const stateMessageCount = 200

// Config holds bot configuration
type Config struct {
	Token        string
	MuteRoleName string
	Games        services.GameSettings
	Progression  services.ProgressionSettings
}

type commandHandler interface {
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	poster     *discordPoster

	// Feature modules
	economy    *economy.Feature
	games      *games.Feature
	leveling   *leveling.Feature
	shop       *shop.Feature
	marriage   *marriage.Feature
	moderation *moderation.Feature
	settings   *settings.Feature
	tickets    *tickets.Feature
	utility    *utility.Feature

	commands map[string]commandHandler

	// Worker cleanup functions
	stopMuteSweepWorker func()
}

// New creates the bot, connects to Discord and registers the slash commands
func New(config Config, uowFactory application.UnitOfWorkFactory, cache interfaces.LeaderboardCache) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent
	dg.State.MaxMessageCount = stateMessageCount

	bot := newBot(config, dg, uowFactory, cache)

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.settings.HandleGuildCreate)
	dg.AddHandler(bot.settings.HandleMemberJoin)
	dg.AddHandler(bot.settings.HandleMessageDelete)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// newBot wires the feature modules without touching the network
func newBot(config Config, dg *discordgo.Session, uowFactory application.UnitOfWorkFactory, cache interfaces.LeaderboardCache) *Bot {
	random := services.NewRandomSource()

	bot := &Bot{
		session:    dg,
		uowFactory: uowFactory,
		poster:     newDiscordPoster(dg, config.MuteRoleName),
		economy:    economy.NewFeature(dg, uowFactory, random, config.Games),
		games:      games.NewFeature(dg, uowFactory, random, config.Games),
		leveling:   leveling.NewFeature(dg, uowFactory, cache, config.Progression),
		shop:       shop.NewFeature(dg, uowFactory),
		marriage:   marriage.NewFeature(dg, uowFactory),
		moderation: moderation.NewFeature(dg, uowFactory, config.MuteRoleName),
		settings:   settings.NewFeature(dg, uowFactory),
		tickets:    tickets.NewFeature(dg, uowFactory),
		utility:    utility.NewFeature(dg, helpCategories(applicationCommands())),
	}

	bot.commands = map[string]commandHandler{
		"balance":        bot.economy,
		"daily":          bot.economy,
		"work":           bot.economy,
		"setmoney":       bot.economy,
		"flip":           bot.games,
		"slots":          bot.games,
		"rob":            bot.games,
		"rank":           bot.leveling,
		"leaderboard":    bot.leveling,
		"shop":           bot.shop,
		"buyrole":        bot.shop,
		"addshoprole":    bot.shop,
		"removeshoprole": bot.shop,
		"marry":          bot.marriage,
		"divorce":        bot.marriage,
		"spouse":         bot.marriage,
		"ban":            bot.moderation,
		"unban":          bot.moderation,
		"kick":           bot.moderation,
		"mute":           bot.moderation,
		"unmute":         bot.moderation,
		"warn":           bot.moderation,
		"warnings":       bot.moderation,
		"clearwarnings":  bot.moderation,
		"purge":          bot.moderation,
		"setlogs":        bot.settings,
		"setreport":      bot.settings,
		"setautorole":    bot.settings,
		"report":         bot.settings,
		"ticket":         bot.tickets,
		"invite":         bot.utility,
		"help":           bot.utility,
	}

	return bot
}

// GetDiscordPoster returns the poster used by the application event handlers
func (b *Bot) GetDiscordPoster() application.DiscordPoster {
	return b.poster
}

// GetMuteRoleManager returns the role remover used by the mute sweep
func (b *Bot) GetMuteRoleManager() application.MuteRoleManager {
	return b.poster
}

// StartMuteSweepWorker lifts expired mutes every interval until Close
func (b *Bot) StartMuteSweepWorker(ctx context.Context, interval time.Duration) {
	worker := application.NewMuteSweepWorker(b.uowFactory, b.poster)
	b.stopMuteSweepWorker = worker.Start(ctx, interval)
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopMuteSweepWorker != nil {
		b.stopMuteSweepWorker()
		log.Info("Mute sweep worker stopped")
	}

	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Connected to Discord")
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.commands[name]
	if !ok {
		log.Warnf("No handler for command: %s", name)
		return
	}

	observability.GetMetrics().RecordCommand(name)
	handler.HandleCommand(s, i)
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, marriage.ComponentPrefix):
		b.marriage.HandleInteraction(s, i)
	default:
		log.Debugf("Unhandled component interaction: %s", customID)
	}
}

// handleMessageCreate feeds guild messages to the XP engine
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID == "" {
		log.Debugf("Skipping message %s - not from a guild (possibly a DM)", m.ID)
		return
	}

	b.leveling.HandleMessage(s, m)
}
