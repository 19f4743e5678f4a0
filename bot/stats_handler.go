package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	users, err := b.userService.GetLeaderboard(ctx, 10)
	if err != nil {
		log.Errorf("Failed to get leaderboard: %v", err)
		b.respondWithError(s, i, "Unable to retrieve leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: 0xf1c40f,
	}

	if len(users) == 0 {
		embed.Description = "Nobody has placed a bet yet."
	} else {
		var table strings.Builder
		table.WriteString("```\n")
		table.WriteString(fmt.Sprintf("%-4s %-20s %s\n", "Rank", "Bettor", "Coins"))
		table.WriteString(strings.Repeat("-", 38) + "\n")
		for rank, user := range users {
			name := GetDisplayNameInt64(s, i.GuildID, user.DiscordID)
			if len(name) > 20 {
				name = name[:20]
			}
			table.WriteString(fmt.Sprintf("%-4d %-20s %s\n", rank+1, name, FormatCoins(user.Balance)))
		}
		table.WriteString("```")
		embed.Description = table.String()
	}

	b.respondWithEmbed(s, i, embed)
}

func (b *Bot) handleHighestBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	record, err := b.bettingService.GetHighestBet(ctx)
	if err != nil {
		log.Errorf("Failed to get highest bet: %v", err)
		b.respondWithError(s, i, "Unable to retrieve the record. Please try again.")
		return
	}
	if record == nil {
		b.respond(s, i, "No bets yet. The record is yours for the taking.")
		return
	}

	name := GetDisplayNameInt64(s, i.GuildID, record.DiscordID)
	b.respond(s, i, fmt.Sprintf("🏆 The biggest bet ever: **%s coins** by **%s** on side %d.",
		FormatCoins(record.Amount), name, record.Side))
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "How betting works",
		Color: 0x9b59b6,
		Description: fmt.Sprintf(
			"Post a matchup in **#%s** as `1. Red Team vs 2. Blue Team` and I'll add the side reactions.",
			b.config.BetsChannelName),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Placing a bet",
				Value: "React with 1️⃣ or 2️⃣ on a matchup and reply to my DM with your stake. Or use `/bet` directly. One bet per matchup, and bets are final.",
			},
			{
				Name:  "Payouts",
				Value: "Winners get their stake back plus winnings at the pool odds (losing pool divided by winning pool, between 0.25x and 1x). If nobody bet against you, your stake is doubled.",
			},
			{
				Name:  "Commands",
				Value: "`/balance` your coins\n`/livebets` open bets on a matchup\n`/highestbet` the all-time record\n`/leaderboard` the richest bettors\n`/resolve` declare a winner (admins)\n`/addcoins` grant coins (admins)",
			},
		},
	}

	b.respondWithEmbed(s, i, embed)
}
