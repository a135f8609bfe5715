package moderation

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const mutedDeny = discordgo.PermissionSendMessages |
	discordgo.PermissionSendMessagesInThreads |
	discordgo.PermissionAddReactions |
	discordgo.PermissionVoiceSpeak

// FindMuteRole returns the guild's mute role, or nil when it does not exist
func FindMuteRole(s *discordgo.Session, guildID, name string) (*discordgo.Role, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return findRoleByName(roles, name), nil
}

// ensureMuteRole returns the mute role, creating it without permissions and
// denying it speech in every channel when the guild has none
func ensureMuteRole(s *discordgo.Session, guildID, name string) (*discordgo.Role, error) {
	role, err := FindMuteRole(s, guildID, name)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}

	noPermissions := int64(0)
	role, err = s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Permissions: &noPermissions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mute role: %w", err)
	}

	channels, err := s.GuildChannels(guildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Created mute role but could not list channels")
		return role, nil
	}
	for _, channel := range channels {
		err := s.ChannelPermissionSet(channel.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, mutedDeny)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guild_id":   guildID,
				"channel_id": channel.ID,
			}).Warn("Failed to restrict mute role in channel")
		}
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"role_id":  role.ID,
	}).Info("Created mute role")
	return role, nil
}
