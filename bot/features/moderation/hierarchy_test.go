package moderation

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "1",
		OwnerID: "100",
		Roles: []*discordgo.Role{
			{ID: "1", Name: "@everyone", Position: 0},
			{ID: "10", Name: "Member", Position: 1},
			{ID: "20", Name: "Moderator", Position: 5},
			{ID: "30", Name: "Admin", Position: 9},
			{ID: "40", Name: "Silenciado", Position: 2},
		},
	}
}

func TestHighestRolePosition(t *testing.T) {
	t.Parallel()

	guild := testGuild()

	tests := []struct {
		name   string
		member *discordgo.Member
		want   int
	}{
		{name: "nil member", member: nil, want: 0},
		{name: "no roles", member: &discordgo.Member{}, want: 0},
		{name: "single role", member: &discordgo.Member{Roles: []string{"10"}}, want: 1},
		{name: "picks the top role", member: &discordgo.Member{Roles: []string{"10", "30", "20"}}, want: 9},
		{name: "unknown roles are ignored", member: &discordgo.Member{Roles: []string{"999", "10"}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, highestRolePosition(guild, tt.member))
		})
	}
}

func TestCheckHierarchy(t *testing.T) {
	t.Parallel()

	guild := testGuild()
	moderator := &discordgo.Member{Roles: []string{"20"}}
	member := &discordgo.Member{Roles: []string{"10"}}
	admin := &discordgo.Member{Roles: []string{"30"}}
	peer := &discordgo.Member{Roles: []string{"20"}}

	tests := []struct {
		name     string
		actorID  string
		actor    *discordgo.Member
		target   *discordgo.Member
		targetID string
		wantErr  error
	}{
		{name: "higher role may act", actorID: "2", actor: moderator, target: member, targetID: "3"},
		{name: "equal role is rejected", actorID: "2", actor: moderator, target: peer, targetID: "3", wantErr: errHierarchy},
		{name: "lower role is rejected", actorID: "2", actor: moderator, target: admin, targetID: "3", wantErr: errHierarchy},
		{name: "owner may act on anyone", actorID: "100", actor: member, target: admin, targetID: "3"},
		{name: "nobody acts on the owner", actorID: "2", actor: admin, target: member, targetID: "100", wantErr: errHierarchy},
		{name: "self is rejected", actorID: "2", actor: moderator, target: moderator, targetID: "2", wantErr: errSelf},
		{name: "non-member target", actorID: "2", actor: moderator, target: nil, targetID: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkHierarchy(guild, tt.actorID, tt.actor, tt.target, tt.targetID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFindRoleByName(t *testing.T) {
	t.Parallel()

	guild := testGuild()
	role := findRoleByName(guild.Roles, "Silenciado")
	if assert.NotNil(t, role) {
		assert.Equal(t, "40", role.ID)
	}
	assert.Nil(t, findRoleByName(guild.Roles, "silenciado"))
}
