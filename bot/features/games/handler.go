package games

import (
	"context"
	"time"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/interfaces"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) games(uow application.UnitOfWork) interfaces.GamesService {
	ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewGamesService(ledger, services.NewCooldownService(uow.CooldownRepository()), f.random, f.settings)
}

// handleFlip bets on cara or cruz
func (f *Feature) handleFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	side := options.String("side", "")
	amount := options.Int("amount", 0)

	var result *interfaces.FlipResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = f.games(uow).Flip(ctx, userID, side, amount)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, flipEmbed(result))
}

// handleSlots spins the reels
func (f *Feature) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	stake := options.Int("amount", 0)

	var result *interfaces.SlotsResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = f.games(uow).Slots(ctx, userID, stake)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, slotsEmbed(result, stake))
}

// handleRob attempts to steal from another member
func (f *Feature) handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	target := options.User(i, "user")
	if target == nil {
		common.HandleError(s, i, domain.NewValidationError("user", "Pick someone to rob."), false)
		return
	}
	if target.Bot {
		common.HandleError(s, i, domain.NewValidationError("user", "Bots don't carry money."), false)
		return
	}
	targetID, err := common.ParseUserID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	var result *interfaces.RobResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = f.games(uow).Rob(ctx, userID, targetID, time.Now())
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, robEmbed(result, userID, targetID))
}
