package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nexus/application"
	"nexus/bot/common"
	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/domain/utils"
	"nexus/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Discord refuses bulk deletes of messages older than two weeks
const bulkDeleteMaxAge = 14 * 24 * time.Hour

const maxPurge = 100

func moderation(guildID int64, uow application.UnitOfWork) interfaces.ModerationService {
	return services.NewModerationService(guildID, uow.TempMuteRepository(), uow.WarningRepository(), uow.EventBus())
}

// target holds a resolved user option together with its guild member, if any
type target struct {
	id     int64
	user   *discordgo.User
	member *discordgo.Member
}

func resolveTarget(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) (*target, error) {
	user := options.User(i, "user")
	if user == nil {
		return nil, domain.NewValidationError("user", "Pick a member.")
	}
	id, err := common.ParseUserID(user.ID)
	if err != nil {
		return nil, common.NewSystemError(err, "failed to parse target ID")
	}

	t := &target{id: id, user: user}
	if data := i.ApplicationCommandData(); data.Resolved != nil {
		t.member = data.Resolved.Members[user.ID]
	}
	if t.member == nil {
		if member, err := s.State.Member(i.GuildID, user.ID); err == nil {
			t.member = member
		}
	}
	return t, nil
}

// authorize checks the caller's permission and role hierarchy over the target
func authorize(s *discordgo.Session, i *discordgo.InteractionCreate, perm int64, t *target) error {
	if !common.HasPermission(i, perm) {
		return domain.ErrPermissionDenied
	}
	if t == nil {
		return nil
	}
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return fmt.Errorf("failed to load guild: %w", err)
		}
	}
	return checkHierarchy(guild, common.InteractionUserID(i), i.Member, t.member, t.user.ID)
}

// record publishes the moderation event that feeds the log channel
func (f *Feature) record(ctx context.Context, guildID int64, action entities.ModerationAction, targetID, moderatorID int64, reason, detail string) {
	err := common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return moderation(guildID, uow).RecordAction(ctx, action, targetID, moderatorID, reason, detail)
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": guildID,
			"action":   action,
		}).Error("Failed to record moderation action")
	}
	observability.GetMetrics().RecordModerationAction(string(action))
}

func reasonOption(options common.Options) string {
	reason := strings.TrimSpace(options.String("reason", ""))
	if reason == "" {
		return services.DefaultReason
	}
	return reason
}

// auditReason is what Discord shows in the audit log
func auditReason(i *discordgo.InteractionCreate, reason string) string {
	moderator := "unknown"
	if user := common.InteractionUser(i); user != nil {
		moderator = user.Username
	}
	return common.Truncate(fmt.Sprintf("Moderator: %s. Reason: %s", moderator, reason), 512)
}

func actionDescription(t *target, moderatorID int64, reason string) string {
	return fmt.Sprintf("**User:** %s\n**Moderator:** %s\n**Reason:** %s",
		common.GetUserMention(t.id), common.GetUserMention(moderatorID), reason)
}

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if err := authorize(s, i, discordgo.PermissionBanMembers, t); err != nil {
		return outcomeFromError(err)
	}

	reason := reasonOption(options)
	if err := s.GuildBanCreateWithReason(i.GuildID, t.user.ID, auditReason(i, reason), 0); err != nil {
		return outcomeFromError(err)
	}

	f.record(ctx, guildID, entities.ModerationBan, t.id, moderatorID, reason, "")
	return succeeded(common.ModerationEmbed("🔨 Banned", actionDescription(t, moderatorID, reason), common.ColorDanger))
}

func (f *Feature) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if t.member == nil {
		return invalid("That user is not a member of this server.")
	}
	if err := authorize(s, i, discordgo.PermissionKickMembers, t); err != nil {
		return outcomeFromError(err)
	}

	reason := reasonOption(options)
	if err := s.GuildMemberDeleteWithReason(i.GuildID, t.user.ID, auditReason(i, reason)); err != nil {
		return outcomeFromError(err)
	}

	f.record(ctx, guildID, entities.ModerationKick, t.id, moderatorID, reason, "")
	return succeeded(common.ModerationEmbed("👟 Kicked", actionDescription(t, moderatorID, reason), common.ColorWarning))
}

func (f *Feature) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	if err := authorize(s, i, discordgo.PermissionBanMembers, nil); err != nil {
		return outcomeFromError(err)
	}

	_, options := common.CommandOptions(i)
	raw := strings.TrimSpace(options.String("user_id", ""))
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return invalid("That is not a valid user ID.")
	}

	reason := reasonOption(options)
	if err := s.GuildBanDelete(i.GuildID, raw); err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownBan {
			return invalid("That user is not banned.")
		}
		return outcomeFromError(err)
	}

	f.record(ctx, guildID, entities.ModerationUnban, userID, moderatorID, reason, "")
	return succeeded(common.ModerationEmbed("🕊️ Unbanned",
		fmt.Sprintf("**User:** %s (`%d`)\n**Moderator:** %s\n**Reason:** %s", common.GetUserMention(userID), userID, common.GetUserMention(moderatorID), reason),
		common.ColorInfo))
}

// handleMute stores the mute and adds the role in one unit of work, so a
// failed role grant leaves no mute behind for the sweep
func (f *Feature) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if t.member == nil {
		return invalid("That user is not a member of this server.")
	}
	if err := authorize(s, i, discordgo.PermissionManageRoles, t); err != nil {
		return outcomeFromError(err)
	}

	rawDuration := strings.TrimSpace(options.String("duration", ""))
	duration, err := utils.ParseDuration(rawDuration)
	if err != nil {
		return outcomeFromError(err)
	}

	role, err := ensureMuteRole(s, i.GuildID, f.muteRoleName)
	if err != nil {
		return outcomeFromError(err)
	}
	if lo.Contains(t.member.Roles, role.ID) {
		return invalid("That member is already muted.")
	}

	reason := reasonOption(options)
	var mute *entities.TempMute
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		mute, err = moderation(guildID, uow).Mute(ctx, t.id, moderatorID, duration, reason, time.Now())
		if err != nil {
			return err
		}
		return s.GuildMemberRoleAdd(i.GuildID, t.user.ID, role.ID)
	})
	if err != nil {
		return outcomeFromError(err)
	}

	observability.GetMetrics().RecordModerationAction(string(entities.ModerationMute))
	return succeeded(common.ModerationEmbed("🔇 Muted",
		fmt.Sprintf("%s\n**Duration:** %s\n**Until:** %s", actionDescription(t, moderatorID, reason), rawDuration, common.FormatDiscordTimestamp(mute.UnmuteTime, "f")),
		common.ColorMuted))
}

func (f *Feature) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if err := authorize(s, i, discordgo.PermissionManageRoles, nil); err != nil {
		return outcomeFromError(err)
	}

	role, err := FindMuteRole(s, i.GuildID, f.muteRoleName)
	if err != nil {
		return outcomeFromError(err)
	}
	if role == nil || t.member == nil || !lo.Contains(t.member.Roles, role.ID) {
		return invalid("That member is not muted.")
	}

	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		if err := moderation(guildID, uow).Unmute(ctx, t.id, moderatorID); err != nil {
			return err
		}
		return s.GuildMemberRoleRemove(i.GuildID, t.user.ID, role.ID)
	})
	if err != nil {
		return outcomeFromError(err)
	}

	observability.GetMetrics().RecordModerationAction(string(entities.ModerationUnmute))
	return succeeded(common.ModerationEmbed("🔊 Unmuted",
		fmt.Sprintf("**User:** %s\n**Moderator:** %s", common.GetUserMention(t.id), common.GetUserMention(moderatorID)),
		common.ColorSuccess))
}

func (f *Feature) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if t.user.Bot {
		return invalid("You cannot warn a bot.")
	}
	if err := authorize(s, i, discordgo.PermissionKickMembers, t); err != nil {
		return outcomeFromError(err)
	}

	reason := reasonOption(options)
	var count int
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		_, count, err = moderation(guildID, uow).Warn(ctx, t.id, moderatorID, reason)
		return err
	})
	if err != nil {
		return outcomeFromError(err)
	}

	observability.GetMetrics().RecordModerationAction(string(entities.ModerationWarn))
	return succeeded(common.ModerationEmbed("⚠️ Warned",
		fmt.Sprintf("%s\n**Total warnings:** %d", actionDescription(t, moderatorID, reason), count),
		common.ColorWarning))
}

func (f *Feature) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}
	if err := authorize(s, i, discordgo.PermissionKickMembers, nil); err != nil {
		return outcomeFromError(err)
	}

	var warnings []*entities.Warning
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		warnings, err = moderation(guildID, uow).GetWarnings(ctx, t.id)
		return err
	})
	if err != nil {
		return outcomeFromError(err)
	}

	name := common.GetDisplayName(s, i.GuildID, t.user.ID)
	return succeeded(warningsEmbed(name, warnings))
}

func (f *Feature) handleClearWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) Outcome {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, common.InteractionUserID(i)) {
		return outcomeFromError(domain.ErrPermissionDenied)
	}

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return outcomeFromError(err)
	}
	_, options := common.CommandOptions(i)
	t, err := resolveTarget(s, i, options)
	if err != nil {
		return outcomeFromError(err)
	}

	var removed int64
	err = common.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		removed, err = moderation(guildID, uow).ClearWarnings(ctx, t.id, moderatorID)
		return err
	})
	if err != nil {
		return outcomeFromError(err)
	}

	observability.GetMetrics().RecordModerationAction(string(entities.ModerationClearWarns))
	return succeeded(common.SuccessEmbed("Warnings cleared",
		fmt.Sprintf("Removed **%d** warning(s) from %s.", removed, common.GetUserMention(t.id))))
}

// handlePurge deletes the most recent messages of the channel. It defers
// because fetching and deleting can exceed the interaction deadline.
func (f *Feature) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		outcomeFromError(err).respond(s, i, false)
		return
	}
	if err := authorize(s, i, discordgo.PermissionManageMessages, nil); err != nil {
		outcomeFromError(err).respond(s, i, false)
		return
	}

	_, options := common.CommandOptions(i)
	amount := options.Int("amount", 0)
	if amount < 1 || amount > maxPurge {
		invalid(fmt.Sprintf("Pick an amount between 1 and %d.", maxPurge)).respond(s, i, false)
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer purge response: %v", err)
		return
	}

	deleted, err := purgeMessages(s, i.ChannelID, int(amount), time.Now())
	if err != nil {
		outcomeFromError(err).respond(s, i, true)
		return
	}

	f.record(ctx, guildID, entities.ModerationPurge, 0, moderatorID, "",
		fmt.Sprintf("%d message(s) in %s", deleted, "<#"+i.ChannelID+">"))

	_, err = common.FollowUpWithEmbed(s, i, common.SuccessEmbed("Messages deleted",
		fmt.Sprintf("Deleted **%d** message(s) in <#%s>.", deleted, i.ChannelID)), nil, true)
	if err != nil {
		log.Errorf("Failed to send purge response: %v", err)
	}
}

func purgeMessages(s *discordgo.Session, channelID string, amount int, now time.Time) (int, error) {
	messages, err := s.ChannelMessages(channelID, amount, "", "", "")
	if err != nil {
		return 0, err
	}

	recent, old := splitByAge(messages, now)
	deleted := 0

	switch len(recent) {
	case 0:
	case 1:
		if err := s.ChannelMessageDelete(channelID, recent[0]); err != nil {
			return deleted, err
		}
		deleted++
	default:
		if err := s.ChannelMessagesBulkDelete(channelID, recent); err != nil {
			return deleted, err
		}
		deleted += len(recent)
	}

	for _, id := range old {
		if err := s.ChannelMessageDelete(channelID, id); err != nil {
			log.WithError(err).WithField("message_id", id).Warn("Failed to delete old message")
			continue
		}
		deleted++
	}
	return deleted, nil
}

// splitByAge separates message IDs that may be bulk deleted from those that must go one by one
func splitByAge(messages []*discordgo.Message, now time.Time) (recent, old []string) {
	cutoff := now.Add(-bulkDeleteMaxAge)
	isRecent := func(m *discordgo.Message, _ int) bool {
		return m.Timestamp.After(cutoff)
	}
	fresh := lo.Filter(messages, isRecent)
	stale := lo.Reject(messages, isRecent)
	id := func(m *discordgo.Message, _ int) string { return m.ID }
	return lo.Map(fresh, id), lo.Map(stale, id)
}
