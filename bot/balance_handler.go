package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target := interactionUser(i)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	discordID, err := parseSnowflake(target.ID)
	if err != nil {
		log.Errorf("Failed to parse Discord ID %s: %v", target.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Accounts spring into existence on first balance access
	user, err := b.userService.GetOrCreateUser(ctx, discordID, target.Username)
	if err != nil {
		log.Errorf("Failed to get user %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := GetDisplayName(s, i.GuildID, target.ID)
	if target.ID == interactionUser(i).ID {
		b.respond(s, i, fmt.Sprintf("%s, your current balance: **%s coins**", displayName, FormatCoins(user.Balance)))
		return
	}
	b.respond(s, i, fmt.Sprintf("%s's current balance: **%s coins**", displayName, FormatCoins(user.Balance)))
}

func (b *Bot) handleAddCoins(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !b.isPrivileged(i) {
		b.respondWithError(s, i, "You don't have permission to grant coins.")
		return
	}

	var amount int64
	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			target = opt.UserValue(s)
		}
	}

	if target == nil {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}
	if amount == 0 {
		b.respondWithError(s, i, "Amount must be non-zero.")
		return
	}

	targetID, err := parseSnowflake(target.ID)
	if err != nil {
		log.Errorf("Failed to parse target Discord ID %s: %v", target.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	adjusterID, err := parseSnowflake(interactionUser(i).ID)
	if err != nil {
		log.Errorf("Failed to parse adjuster Discord ID: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	newBalance, err := b.userService.AdjustBalance(ctx, targetID, target.Username, amount, adjusterID)
	if err != nil {
		log.Errorf("Failed to adjust balance for %d by %d: %v", targetID, amount, err)
		b.respondWithError(s, i, "Unable to adjust balance. Please try again.")
		return
	}

	targetName := GetDisplayName(s, i.GuildID, target.ID)
	verb := "granted"
	shown := amount
	if amount < 0 {
		verb = "removed"
		shown = -amount
	}
	b.respond(s, i, fmt.Sprintf("✅ %s **%s coins** for **%s**. New balance: **%s coins**",
		verb, FormatCoins(shown), targetName, FormatCoins(newBalance)))
}
