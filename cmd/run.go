package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus/application"
	"nexus/bot"
	"nexus/config"
	"nexus/database"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/infrastructure"
	"nexus/infrastructure/observability"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return Run(ctx, cfg)
	},
}

// Run initializes and starts the application, blocking until ctx ends
func Run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting nexus bot...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnectionWithOptions(ctx, cfg.GetDatabaseURL(), database.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize event publishing, NATS export is optional
	var messagePublisher infrastructure.MessagePublisher
	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers, infrastructure.SourceService)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()
		if err := natsClient.EnsureDomainStream(); err != nil {
			return fmt.Errorf("failed to ensure domain event stream: %w", err)
		}
		messagePublisher = natsClient
	} else {
		log.Info("NATS_SERVERS not set, events stay in process")
	}

	eventPublisher := infrastructure.NewNATSEventPublisher(messagePublisher, infrastructure.NewEventSubjectMapper())

	cache, closeCache, err := leaderboardCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(botConfig(cfg), uowFactory, cache)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	application.RegisterApplicationSubscriptions(uowFactory, uowFactory, discordBot.GetDiscordPoster(), cache)
	discordBot.StartMuteSweepWorker(ctx, cfg.MuteSweepInterval)

	liveness := bot.NewLivenessServer(cfg.LivenessAddr)
	liveness.Start()

	log.WithField("environment", cfg.Environment).Info("Bot is running")
	<-ctx.Done()

	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := liveness.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error stopping liveness server")
	}
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}

func leaderboardCache(ctx context.Context, cfg *config.Config) (interfaces.LeaderboardCache, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, leaderboard cache disabled")
		return infrastructure.NoopLeaderboardCache{}, func() {}, nil
	}

	client, err := infrastructure.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis client")
		}
	}
	return infrastructure.NewRedisLeaderboardCache(client, cfg.LeaderboardCacheTTL), closeFn, nil
}

func botConfig(cfg *config.Config) bot.Config {
	return bot.Config{
		Token:        cfg.DiscordToken,
		MuteRoleName: cfg.MuteRoleName,
		Games: services.GameSettings{
			DailyReward:   cfg.DailyReward,
			DailyCooldown: cfg.DailyCooldown,
			WorkMinPay:    cfg.WorkMinPay,
			WorkMaxPay:    cfg.WorkMaxPay,
			WorkCooldown:  cfg.WorkCooldown,
			RobCooldown:   cfg.RobCooldown,
		},
		Progression: services.ProgressionSettings{
			XPPerMessage: cfg.XPPerMessage,
			Cooldown:     cfg.XPCooldown,
		},
	}
}
