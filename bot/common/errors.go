package common

import (
	"errors"
	"fmt"
	"net/http"

	"nexus/domain"
	"nexus/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericErrorMessage = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// IsPermissionError reports whether Discord refused an action for lack of permissions
func IsPermissionError(err error) bool {
	if errors.Is(err, domain.ErrPermissionDenied) {
		return true
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return true
		}
		if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions {
			return true
		}
	}
	return false
}

// UserMessageFor maps an error to the text shown to the user.
// The second return value is false for errors the user cannot act on.
func UserMessageFor(err error) (string, bool) {
	var botErr *BotError
	if errors.As(err, &botErr) && botErr.Err == nil {
		return botErr.UserMessage, true
	}

	var validationErr *domain.ValidationError
	var cooldownErr *domain.CooldownError
	var fundsErr *domain.InsufficientFundsError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message, true
	case errors.As(err, &cooldownErr):
		return fmt.Sprintf("You have to wait **%s** before doing that again.", utils.FormatRemaining(cooldownErr.Remaining)), true
	case errors.As(err, &fundsErr):
		return fmt.Sprintf("You only have **%s**, you need **%s**.", utils.FormatCoins(fundsErr.Balance), utils.FormatCoins(fundsErr.Required)), true
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "You don't have enough money.", true
	case errors.Is(err, domain.ErrConfigurationMissing):
		return "This server hasn't been set up for that yet. Ask an administrator to run the setup command.", true
	case IsPermissionError(err):
		return "I don't have permission to do that. Check my role position and permissions.", true
	case errors.Is(err, domain.ErrAlreadyMarried):
		return "One of you is already married.", true
	case errors.Is(err, domain.ErrNotMarried):
		return "You are not married.", true
	case errors.Is(err, domain.ErrListingNotFound):
		return "That role is not for sale.", true
	case errors.Is(err, domain.ErrAlreadyOwnsRole):
		return "You already have that role.", true
	case errors.Is(err, domain.ErrTargetTooPoor):
		return "That user is too poor to be worth robbing.", true
	}

	return genericErrorMessage, false
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{ErrorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{ErrorEmbed(message)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and answers the interaction with the matching user message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	message, expected := UserMessageFor(err)

	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"command": InteractionName(i),
		"error":   err.Error(),
	}
	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["user_message"] = botErr.UserMessage
		fields["context"] = botErr.Context
		message = botErr.UserMessage
	}

	if expected {
		log.WithFields(fields).Debug("Command rejected")
	} else {
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
