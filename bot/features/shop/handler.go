package shop

import (
	"context"
	"fmt"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

func shopService(uow application.UnitOfWork) interfaces.ShopService {
	ledger := services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewShopService(uow.ShopRepository(), ledger)
}

// handleShop lists the roles for sale
func (f *Feature) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var listings []*entities.ShopListing
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		listings, err = shopService(uow).ListListings(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list shop"), false)
		return
	}

	common.Respond(s, i, listingsEmbed(listings))
}

// handleBuyRole debits the buyer and grants the role. The grant happens
// inside the unit of work so a Discord failure rolls the debit back.
func (f *Feature) handleBuyRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	roleID := options.Snowflake("role")
	roleIDStr := common.FormatDiscordID(roleID)
	alreadyOwned := i.Member != nil && lo.Contains(i.Member.Roles, roleIDStr)

	var result *interfaces.PurchaseResult
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		result, err = shopService(uow).PurchaseRole(ctx, userID, roleID, alreadyOwned)
		if err != nil {
			return err
		}
		if err := s.GuildMemberRoleAdd(i.GuildID, common.InteractionUserID(i), roleIDStr); err != nil {
			if common.IsPermissionError(err) {
				return domain.ErrPermissionDenied
			}
			return common.NewSystemError(err, "failed to grant purchased role")
		}
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"role_id":  roleID,
		"price":    result.Listing.Price,
	}).Info("Role purchased")

	common.Respond(s, i, common.SuccessEmbed("Purchase complete",
		fmt.Sprintf("You bought %s for **%s**.\nNew balance: **%s**.",
			common.GetRoleMention(roleID), utils.FormatCoins(result.Listing.Price), utils.FormatCoins(result.NewBalance))))
}

// handleAddShopRole lists or reprices a role (administrators only)
func (f *Feature) handleAddShopRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	roleID := options.Snowflake("role")
	price := options.Int("price", 0)

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return shopService(uow).AddListing(ctx, roleID, price)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, common.SuccessEmbed("Shop updated",
		fmt.Sprintf("%s is now for sale for **%s**.", common.GetRoleMention(roleID), utils.FormatCoins(price))))
}

// handleRemoveShopRole takes a role off sale (administrators only)
func (f *Feature) handleRemoveShopRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	roleID := options.Snowflake("role")

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return shopService(uow).RemoveListing(ctx, roleID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.Respond(s, i, common.SuccessEmbed("Shop updated",
		fmt.Sprintf("%s was removed from the shop.", common.GetRoleMention(roleID))))
}
