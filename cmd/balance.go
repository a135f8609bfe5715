package cmd

import (
	"context"
	"fmt"
	"strconv"

	"nexus/database"
	"nexus/domain/services"
	"nexus/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var setBalanceCmd = &cobra.Command{
	Use:   "set-balance <guild-id> <user-id> <amount>",
	Short: "Overwrite a user's balance from the shell",
	Long:  `set-balance writes the balance directly and records an admin history entry. Events are not exported.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, len(args))
		for n, arg := range args {
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", arg, err)
			}
			ids[n] = v
		}
		guildID, userID, amount := ids[0], ids[1], ids[2]
		if amount < 0 {
			return fmt.Errorf("amount cannot be negative")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
		uow := uowFactory.CreateForGuild(guildID)
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
		balance, err := ledger.Set(ctx, userID, amount)
		if err != nil {
			return err
		}
		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		log.WithFields(log.Fields{
			"guild":   guildID,
			"user":    userID,
			"balance": balance,
		}).Info("Balance updated")
		return nil
	},
}
