package shop

import (
	"fmt"
	"strings"

	"nexus/bot/common"
	"nexus/domain/entities"
	"nexus/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

func listingsEmbed(listings []*entities.ShopListing) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🛒 Role shop",
		Color: common.ColorGold,
	}
	if len(listings) == 0 {
		embed.Description = "The shop is empty. An administrator can add roles with `/addshoprole`."
		return embed
	}

	lines := lo.Map(listings, func(listing *entities.ShopListing, _ int) string {
		return fmt.Sprintf("%s · **%s**", common.GetRoleMention(listing.RoleID), utils.FormatCoins(listing.Price))
	})
	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Buy a role with /buyrole"}
	return embed
}
