package bot

import (
	"fmt"

	"nexus/bot/features/utility"

	"github.com/bwmarrin/discordgo"
)

var (
	adminPermission    int64 = discordgo.PermissionAdministrator
	banPermission      int64 = discordgo.PermissionBanMembers
	kickPermission     int64 = discordgo.PermissionKickMembers
	manageRolesPerm    int64 = discordgo.PermissionManageRoles
	manageMessagesPerm int64 = discordgo.PermissionManageMessages
)

var (
	minAmount = 1.0
	minPrice  = 1.0
	minPurge  = 1.0
	maxPurge  = 100.0
	guildOnly = []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
)

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for the action",
		Required:    required,
		MaxLength:   500,
	}
}

func roleOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func textChannelOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  description,
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

// applicationCommands returns every slash command the bot serves
func applicationCommands() []*discordgo.ApplicationCommand {
	commands := []*discordgo.ApplicationCommand{
		// Economy
		{
			Name:        "balance",
			Description: "Check your balance or another member's",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to check", false)},
		},
		{Name: "daily", Description: "Claim your daily reward"},
		{Name: "work", Description: "Work for a random wage"},
		{
			Name:                     "setmoney",
			Description:              "Set a member's balance",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member whose balance to set", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "New balance", Required: true, MinValue: new(float64)},
			},
		},

		// Games
		{
			Name:        "flip",
			Description: "Bet on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "Side to bet on",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "cara", Value: "cara"},
						{Name: "cruz", Value: "cruz"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount to bet", Required: true, MinValue: &minAmount},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount to bet", Required: true, MinValue: &minAmount},
			},
		},
		{
			Name:        "rob",
			Description: "Try to steal from another member",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to rob", true)},
		},

		// Leveling
		{
			Name:        "rank",
			Description: "Show your rank card or another member's",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to show", false)},
		},
		{Name: "leaderboard", Description: "Show the server's top members"},

		// Shop
		{Name: "shop", Description: "List the roles for sale"},
		{
			Name:        "buyrole",
			Description: "Buy a role from the shop",
			Options:     []*discordgo.ApplicationCommandOption{roleOption("role", "Role to buy", true)},
		},
		{
			Name:                     "addshoprole",
			Description:              "Put a role up for sale",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				roleOption("role", "Role to sell", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "price", Description: "Price in coins", Required: true, MinValue: &minPrice},
			},
		},
		{
			Name:                     "removeshoprole",
			Description:              "Take a role off sale",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{roleOption("role", "Role to remove", true)},
		},

		// Marriage
		{
			Name:        "marry",
			Description: "Propose to another member",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to propose to", true)},
		},
		{Name: "divorce", Description: "End your marriage"},
		{
			Name:        "spouse",
			Description: "Show who you or another member are married to",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to check", false)},
		},

		// Moderation
		{
			Name:                     "ban",
			Description:              "Ban a member",
			DefaultMemberPermissions: &banPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to ban", true), reasonOption(false)},
		},
		{
			Name:                     "unban",
			Description:              "Unban a user by ID",
			DefaultMemberPermissions: &banPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "user_id", Description: "ID of the banned user", Required: true},
				reasonOption(false),
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member",
			DefaultMemberPermissions: &kickPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to kick", true), reasonOption(false)},
		},
		{
			Name:                     "mute",
			Description:              "Mute a member for a while",
			DefaultMemberPermissions: &manageRolesPerm,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to mute", true),
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Duration such as 30m, 12h or 7d", Required: true},
				reasonOption(false),
			},
		},
		{
			Name:                     "unmute",
			Description:              "Lift a member's mute",
			DefaultMemberPermissions: &manageRolesPerm,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to unmute", true)},
		},
		{
			Name:                     "warn",
			Description:              "Warn a member",
			DefaultMemberPermissions: &kickPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to warn", true), reasonOption(true)},
		},
		{
			Name:                     "warnings",
			Description:              "List a member's warnings",
			DefaultMemberPermissions: &kickPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to check", true)},
		},
		{
			Name:                     "clearwarnings",
			Description:              "Remove all of a member's warnings",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to clear", true)},
		},
		{
			Name:                     "purge",
			Description:              "Delete recent messages in this channel",
			DefaultMemberPermissions: &manageMessagesPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Number of messages (1-100)", Required: true, MinValue: &minPurge, MaxValue: maxPurge},
			},
		},

		// Settings
		{
			Name:                     "setlogs",
			Description:              "Set the moderation log channel",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{textChannelOption("Channel for moderation logs")},
		},
		{
			Name:                     "setreport",
			Description:              "Set the report channel and the role to ping",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				textChannelOption("Channel that receives reports"),
				roleOption("role", "Role pinged on each report", false),
			},
		},
		{
			Name:                     "setautorole",
			Description:              "Set the role given to new members",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{roleOption("role", "Role for new members", true)},
		},
		{
			Name:        "report",
			Description: "Report a member to the moderators",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to report", true), reasonOption(true)},
		},

		// Tickets
		{
			Name:        "ticket",
			Description: "Support tickets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setup",
					Description: "Configure the support role and ticket category (administrators)",
					Options: []*discordgo.ApplicationCommandOption{
						roleOption("support_role", "Role that can see tickets", true),
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "category",
							Description:  "Category new tickets are created in",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a private ticket with the support team",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "topic", Description: "What do you need help with?", MaxLength: 1024},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close",
					Description: "Close the ticket this command is used in",
				},
			},
		},

		// Utility
		{Name: "invite", Description: "Get a link to add the bot to your server"},
		{Name: "help", Description: "List everything the bot can do"},
	}

	for _, cmd := range commands {
		if cmd.Name != "invite" && cmd.Name != "help" {
			cmd.Contexts = &guildOnly
		}
	}
	return commands
}

const (
	categoryModeration = "Moderation"
	categoryEconomy    = "Economy"
	categoryMarriage   = "Marriage"
	categoryUtility    = "Utility"
)

var helpOrder = []utility.HelpCategory{
	{Name: categoryModeration, Emoji: "🛡️"},
	{Name: categoryEconomy, Emoji: "💰"},
	{Name: categoryMarriage, Emoji: "💍"},
	{Name: categoryUtility, Emoji: "🧰"},
}

// commandCategories places each command under a /help heading
var commandCategories = map[string]string{
	"ban":            categoryModeration,
	"unban":          categoryModeration,
	"kick":           categoryModeration,
	"mute":           categoryModeration,
	"unmute":         categoryModeration,
	"warn":           categoryModeration,
	"warnings":       categoryModeration,
	"clearwarnings":  categoryModeration,
	"purge":          categoryModeration,
	"setlogs":        categoryModeration,
	"setreport":      categoryModeration,
	"setautorole":    categoryModeration,
	"report":         categoryModeration,
	"balance":        categoryEconomy,
	"daily":          categoryEconomy,
	"work":           categoryEconomy,
	"setmoney":       categoryEconomy,
	"flip":           categoryEconomy,
	"slots":          categoryEconomy,
	"rob":            categoryEconomy,
	"rank":           categoryEconomy,
	"leaderboard":    categoryEconomy,
	"shop":           categoryEconomy,
	"buyrole":        categoryEconomy,
	"addshoprole":    categoryEconomy,
	"removeshoprole": categoryEconomy,
	"marry":          categoryMarriage,
	"divorce":        categoryMarriage,
	"spouse":         categoryMarriage,
	"ticket":         categoryUtility,
	"invite":         categoryUtility,
	"help":           categoryUtility,
}

// helpCategories groups the registered commands for /help, keeping their registration order
func helpCategories(commands []*discordgo.ApplicationCommand) []utility.HelpCategory {
	categories := make([]utility.HelpCategory, len(helpOrder))
	copy(categories, helpOrder)

	for _, cmd := range commands {
		name, ok := commandCategories[cmd.Name]
		if !ok {
			name = categoryUtility
		}
		for idx := range categories {
			if categories[idx].Name == name {
				categories[idx].Commands = append(categories[idx].Commands, cmd)
				break
			}
		}
	}
	return categories
}

// registerCommands replaces the bot's global slash commands with the current set
func (b *Bot) registerCommands() error {
	commands := applicationCommands()
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", commands); err != nil {
		return fmt.Errorf("cannot register %d commands: %w", len(commands), err)
	}
	return nil
}
