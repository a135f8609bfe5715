package moderation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// highestRolePosition returns the position of the member's top role, 0 for @everyone only
func highestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	if member == nil {
		return 0
	}
	roles := lo.Filter(guild.Roles, func(role *discordgo.Role, _ int) bool {
		return lo.Contains(member.Roles, role.ID)
	})
	return lo.Reduce(roles, func(top int, role *discordgo.Role, _ int) int {
		return max(top, role.Position)
	}, 0)
}

// checkHierarchy allows the guild owner everything. Anyone else needs a
// strictly higher top role than the target, and nobody may act on the owner.
func checkHierarchy(guild *discordgo.Guild, actorID string, actor, target *discordgo.Member, targetID string) error {
	if actorID == targetID {
		return errSelf
	}
	if guild.OwnerID == actorID {
		return nil
	}
	if guild.OwnerID == targetID {
		return errHierarchy
	}
	if target == nil {
		// Not a member, e.g. banning someone who already left
		return nil
	}
	if highestRolePosition(guild, target) >= highestRolePosition(guild, actor) {
		return errHierarchy
	}
	return nil
}

// findRoleByName returns the first role with the exact name
func findRoleByName(roles []*discordgo.Role, name string) *discordgo.Role {
	role, ok := lo.Find(roles, func(role *discordgo.Role) bool {
		return role.Name == name
	})
	if !ok {
		return nil
	}
	return role
}
