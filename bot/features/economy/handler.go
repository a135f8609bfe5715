package economy

import (
	"context"
	"fmt"
	"time"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/domain/utils"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) games(uow application.UnitOfWork) interfaces.GamesService {
	ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewGamesService(ledger, services.NewCooldownService(uow.CooldownRepository()), f.random, f.settings)
}

// handleBalance shows the caller's balance or another member's
func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	var balance int64
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
		balance, err = ledger.GetBalance(ctx, userID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get balance"), false)
		return
	}

	common.Respond(s, i, &discordgo.MessageEmbed{
		Title:       "🏦 Balance",
		Description: fmt.Sprintf("**%s** has **%s**.", common.GetDisplayNameInt64(s, i.GuildID, userID), utils.FormatCoins(balance)),
		Color:       common.ColorGold,
	})
}

// handleDaily claims the daily reward
func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var result *interfaces.RewardResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = f.games(uow).Daily(ctx, userID, time.Now())
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, common.SuccessEmbed("Daily reward",
		fmt.Sprintf("You claimed **%s**. New balance: **%s**.", utils.FormatCoins(result.Amount), utils.FormatCoins(result.NewBalance))))
}

// handleWork pays a random wage
func (f *Feature) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var result *interfaces.RewardResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = f.games(uow).Work(ctx, userID, time.Now())
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, &discordgo.MessageEmbed{
		Title:       "💼 Work",
		Description: fmt.Sprintf("You spent an hour %s and earned **%s**.\nNew balance: **%s**.", result.Job, utils.FormatCoins(result.Amount), utils.FormatCoins(result.NewBalance)),
		Color:       common.ColorSuccess,
	})
}

// handleSetMoney overwrites a member's balance (administrators only)
func (f *Feature) handleSetMoney(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	_, options := common.CommandOptions(i)
	targetID := options.Snowflake("user")
	amount := options.Int("amount", -1)
	if amount < 0 {
		common.HandleError(s, i, domain.NewValidationError("amount", "The amount cannot be negative."), false)
		return
	}

	var balance int64
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
		balance, err = ledger.Set(ctx, targetID, amount)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, common.SuccessEmbed("Balance updated",
		fmt.Sprintf("%s now has **%s**.", common.GetUserMention(targetID), utils.FormatCoins(balance))))
}
