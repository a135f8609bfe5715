package moderation

import (
	"errors"

	"nexus/bot/common"
	"nexus/domain"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// OutcomeKind classifies how a moderation action ended
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePermissionDenied
	OutcomeValidation
	OutcomeConfigurationMissing
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeValidation:
		return "validation"
	case OutcomeConfigurationMissing:
		return "configuration_missing"
	default:
		return "failed"
	}
}

// Outcome is the typed result every moderation command produces
type Outcome struct {
	Kind    OutcomeKind
	Embed   *discordgo.MessageEmbed
	Message string
	Err     error
}

var (
	errHierarchy = errors.New("target has an equal or higher role")
	errSelf      = errors.New("moderator targeted themselves")
)

func succeeded(embed *discordgo.MessageEmbed) Outcome {
	return Outcome{Kind: OutcomeSuccess, Embed: embed}
}

func invalid(message string) Outcome {
	return Outcome{Kind: OutcomeValidation, Message: message}
}

// outcomeFromError maps the failure of a moderation step to its outcome
func outcomeFromError(err error) Outcome {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, errHierarchy):
		return Outcome{Kind: OutcomePermissionDenied, Message: "You cannot moderate a member whose top role is equal to or higher than yours.", Err: err}
	case errors.Is(err, errSelf):
		return Outcome{Kind: OutcomeValidation, Message: "You cannot use this on yourself.", Err: err}
	case errors.As(err, &validationErr):
		return Outcome{Kind: OutcomeValidation, Message: validationErr.Message, Err: err}
	case errors.Is(err, domain.ErrConfigurationMissing):
		message, _ := common.UserMessageFor(err)
		return Outcome{Kind: OutcomeConfigurationMissing, Message: message, Err: err}
	case common.IsPermissionError(err):
		message, _ := common.UserMessageFor(err)
		return Outcome{Kind: OutcomePermissionDenied, Message: message, Err: err}
	}

	message, _ := common.UserMessageFor(err)
	return Outcome{Kind: OutcomeFailed, Message: message, Err: err}
}

// respond answers the interaction with the outcome. Failures are ephemeral.
func (o Outcome) respond(s *discordgo.Session, i *discordgo.InteractionCreate, deferred bool) {
	fields := log.Fields{
		"command": common.InteractionName(i),
		"user_id": common.InteractionUserID(i),
		"outcome": o.Kind.String(),
	}
	switch o.Kind {
	case OutcomeSuccess:
	case OutcomeFailed:
		log.WithFields(fields).WithError(o.Err).Error("Moderation action failed")
	default:
		log.WithFields(fields).WithError(o.Err).Debug("Moderation action rejected")
	}

	if o.Kind == OutcomeSuccess {
		var err error
		if deferred {
			_, err = common.FollowUpWithEmbed(s, i, o.Embed, nil, false)
		} else {
			err = common.RespondWithEmbed(s, i, o.Embed, nil, false)
		}
		if err != nil {
			log.WithFields(fields).WithError(err).Error("Failed to send moderation response")
		}
		return
	}

	if deferred {
		common.FollowUpWithError(s, i, o.Message)
	} else {
		common.RespondWithError(s, i, o.Message)
	}
}
