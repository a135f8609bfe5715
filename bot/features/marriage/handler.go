package marriage

import (
	"context"
	"errors"
	"time"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleMarry validates the proposal, posts it with buttons and waits for the target
func (f *Feature) handleMarry(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, proposerID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.CommandOptions(i)
	target := options.User(i, "user")
	if target == nil {
		common.HandleError(s, i, domain.NewValidationError("user", "Pick someone to propose to."), false)
		return
	}
	if target.Bot {
		common.HandleError(s, i, domain.NewValidationError("user", "You cannot marry a bot."), false)
		return
	}
	targetID, err := common.ParseUserID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return services.NewMarriageService(uow.MarriageRepository(), uow.EventBus()).CanPropose(ctx, proposerID, targetID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	proposerName := common.GetDisplayName(s, i.GuildID, common.InteractionUserID(i))
	token, reply := f.pending.Open(targetID)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    common.GetUserMention(targetID),
			Embeds:     []*discordgo.MessageEmbed{proposalEmbed(proposerName, targetID)},
			Components: proposalButtons(token),
		},
	})
	if err != nil {
		log.Errorf("Failed to post proposal: %v", err)
		f.pending.Close(token)
		return
	}

	go f.awaitProposal(s, i.Interaction, guildID, proposerID, targetID, proposerName, token, reply)
}

func (f *Feature) awaitProposal(s *discordgo.Session, interaction *discordgo.Interaction, guildID, proposerID, targetID int64, proposerName, token string, reply <-chan bool) {
	ctx := context.Background()
	targetName := common.GetDisplayNameInt64(s, interaction.GuildID, targetID)

	accepted, answered := f.pending.Await(ctx, token, reply, common.ProposalTimeout)

	var embed *discordgo.MessageEmbed
	switch {
	case !answered:
		embed = expiredEmbed("proposal")
	case !accepted:
		embed = rejectedEmbed(targetName)
	default:
		err := common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
			_, err := services.NewMarriageService(uow.MarriageRepository(), uow.EventBus()).Marry(ctx, proposerID, targetID, time.Now())
			return err
		})
		if err != nil {
			message, expected := common.UserMessageFor(err)
			if !expected {
				log.WithError(err).WithFields(log.Fields{
					"guild_id":    guildID,
					"proposer_id": proposerID,
					"target_id":   targetID,
				}).Error("Failed to store marriage")
			}
			embed = common.ErrorEmbed(message)
		} else {
			embed = marriedEmbed(proposerName, targetName)
		}
	}

	if err := common.EditOriginal(s, interaction, embed, nil); err != nil {
		log.Errorf("Failed to update proposal message: %v", err)
	}
}

// handleDivorce asks the caller to confirm before removing the marriage
func (f *Feature) handleDivorce(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var partnerID int64
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var married bool
		partnerID, married, err = services.NewMarriageService(uow.MarriageRepository(), uow.EventBus()).GetPartner(ctx, userID)
		if err != nil {
			return err
		}
		if !married {
			return domain.ErrNotMarried
		}
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	partnerName := common.GetDisplayNameInt64(s, i.GuildID, partnerID)
	token, reply := f.pending.Open(userID)

	if err := common.RespondWithEmbed(s, i, divorceEmbed(partnerName), divorceButtons(token), false); err != nil {
		log.Errorf("Failed to post divorce confirmation: %v", err)
		f.pending.Close(token)
		return
	}

	go f.awaitDivorce(s, i.Interaction, guildID, userID, partnerName, token, reply)
}

func (f *Feature) awaitDivorce(s *discordgo.Session, interaction *discordgo.Interaction, guildID, userID int64, partnerName, token string, reply <-chan bool) {
	ctx := context.Background()

	confirmed, answered := f.pending.Await(ctx, token, reply, common.DivorceConfirmTimeout)

	var embed *discordgo.MessageEmbed
	switch {
	case !answered:
		embed = expiredEmbed("divorce request")
	case !confirmed:
		embed = divorceCancelledEmbed(partnerName)
	default:
		err := common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
			_, err := services.NewMarriageService(uow.MarriageRepository(), uow.EventBus()).Divorce(ctx, userID)
			return err
		})
		if err != nil {
			message, expected := common.UserMessageFor(err)
			if !expected {
				log.WithError(err).WithFields(log.Fields{
					"guild_id": guildID,
					"user_id":  userID,
				}).Error("Failed to delete marriage")
			}
			embed = common.ErrorEmbed(message)
		} else {
			userName := common.GetDisplayNameInt64(s, interaction.GuildID, userID)
			embed = divorcedEmbed(userName, partnerName)
		}
	}

	if err := common.EditOriginal(s, interaction, embed, nil); err != nil {
		log.Errorf("Failed to update divorce message: %v", err)
	}
}

// handleSpouse shows who a member is married to and since when
func (f *Feature) handleSpouse(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	var record *entities.MarriageRecord
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		record, err = services.NewMarriageService(uow.MarriageRepository(), uow.EventBus()).GetMarriage(ctx, userID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get marriage"), false)
		return
	}

	userName := common.GetDisplayNameInt64(s, i.GuildID, userID)
	if record == nil {
		common.Respond(s, i, &discordgo.MessageEmbed{
			Title:       "💍 Marriage",
			Description: "**" + userName + "** is not married.",
			Color:       common.ColorMuted,
		})
		return
	}

	partnerName := common.GetDisplayNameInt64(s, i.GuildID, record.PartnerOf(userID))
	common.Respond(s, i, spouseEmbed(userName, partnerName, record))
}

// handleButton hands a button press to the waiting proposal or divorce
func (f *Feature) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate, action, token string) {
	userID, err := common.ParseUserID(common.InteractionUserID(i))
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse user ID"), false)
		return
	}

	accepted := action == actionAccept || action == actionConfirm
	if err := f.pending.Resolve(token, userID, accepted); err != nil {
		switch {
		case errors.Is(err, ErrNotRecipient):
			common.RespondWithError(s, i, "This request is not addressed to you.")
		case errors.Is(err, ErrRequestExpired):
			common.RespondWithError(s, i, "This request has already ended.")
		default:
			common.HandleError(s, i, err, false)
		}
		return
	}

	// The waiting goroutine edits the message once it has stored the result
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Errorf("Failed to acknowledge marriage button: %v", err)
	}
}
