package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"betsbot/models"
	"betsbot/service"
)

// handleBetCommand places a bet directly, skipping the reaction flow
func (b *Bot) handleBetCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var messageIDStr string
	var side, amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "message_id":
			messageIDStr = opt.StringValue()
		case "side":
			side = opt.IntValue()
		case "amount":
			amount = opt.IntValue()
		}
	}

	messageID, err := parseSnowflake(messageIDStr)
	if err != nil {
		b.respondWithError(s, i, "That doesn't look like a message ID.")
		return
	}

	message, err := s.ChannelMessage(i.ChannelID, messageIDStr)
	if err != nil {
		b.respondWithError(s, i, "Couldn't find that message in this channel.")
		return
	}
	sideOne, sideTwo, ok := models.ParseMatchup(message.Content)
	if !ok {
		b.respondWithError(s, i, "That message isn't a matchup.")
		return
	}

	invoker := interactionUser(i)
	discordID, err := parseSnowflake(invoker.ID)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := b.userService.GetOrCreateUser(ctx, discordID, invoker.Username); err != nil {
		log.Errorf("Failed to get user %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	receipt, err := b.bettingService.PlaceBet(ctx, messageID, discordID, models.Side(side), amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateBet):
			b.respondWithError(s, i, "You already have a bet on that matchup. Bets are final.")
		case errors.Is(err, service.ErrInsufficientBalance):
			b.respondWithError(s, i, "You don't have that many coins.")
		case errors.Is(err, service.ErrInvalidStake):
			b.respondWithError(s, i, fmt.Sprintf("The minimum stake is %s coins.", FormatCoins(b.config.MinStake)))
		default:
			log.Errorf("Failed to place bet for %d on %d: %v", discordID, messageID, err)
			b.respondWithError(s, i, "Unable to place bet. Please try again.")
		}
		return
	}

	displayName := GetDisplayName(s, i.GuildID, invoker.ID)
	message2 := fmt.Sprintf("🎲 **%s** staked **%s coins** on **%s**.",
		displayName, FormatCoins(receipt.Bet.Amount), pickSideName(receipt.Bet.Side, sideOne, sideTwo))
	if receipt.RecordBroken {
		message2 += " 🏆 A new all-time record!"
	}
	b.respond(s, i, message2)
}

// handleResolve settles a matchup and posts the payout summary
func (b *Bot) handleResolve(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var messageIDStr string
	var winningSide int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "message_id":
			messageIDStr = opt.StringValue()
		case "winning_side":
			winningSide = opt.IntValue()
		}
	}

	messageID, err := parseSnowflake(messageIDStr)
	if err != nil {
		b.respondWithError(s, i, "That doesn't look like a message ID.")
		return
	}

	// Side names are cosmetic here; settlement proceeds even if the matchup
	// message was deleted.
	sideOne, sideTwo := "Side 1", "Side 2"
	message, msgErr := s.ChannelMessage(i.ChannelID, messageIDStr)
	if msgErr == nil {
		if one, two, ok := models.ParseMatchup(message.Content); ok {
			sideOne, sideTwo = one, two
		}
	}

	if authErr := b.authorizeResolve(i, message); authErr != nil {
		if errors.Is(authErr, service.ErrNotAuthorized) {
			b.respondWithError(s, i, "Only the matchup poster or a moderator can resolve this.")
		}
		return
	}

	resolverID, err := parseSnowflake(interactionUser(i).ID)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	settlement, err := b.settlementService.Resolve(ctx, messageID, models.Side(winningSide), resolverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoBets):
			b.respondWithError(s, i, "Nobody bet on that matchup.")
		case errors.Is(err, service.ErrAlreadyResolved):
			b.respondWithError(s, i, "That matchup was already resolved.")
		default:
			log.Errorf("Failed to resolve matchup %d: %v", messageID, err)
			b.respondWithError(s, i, "Unable to resolve matchup. Please try again.")
		}
		return
	}

	b.respondWithEmbed(s, i, settlementEmbed(s, i.GuildID, settlement, pickSideName(settlement.WinningSide, sideOne, sideTwo)))
}

// settlementEmbed builds the payout summary posted after a resolve
func settlementEmbed(s *discordgo.Session, guildID string, settlement *models.Settlement, winnerName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏁 %s wins!", winnerName),
		Color: 0x00ff00,
		Description: fmt.Sprintf("Payout odds: **%.2f** (pool %s vs %s)",
			settlement.Odds, FormatCoins(settlement.TotalWinning), FormatCoins(settlement.TotalLosing)),
	}

	var winners strings.Builder
	for _, outcome := range settlement.Winners() {
		name := GetDisplayNameInt64(s, guildID, outcome.DiscordID)
		winners.WriteString(fmt.Sprintf("**%s** staked %s, collects **%s coins**\n",
			name, FormatCoins(outcome.Amount), FormatCoins(outcome.Payout)))
	}
	if winners.Len() > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Winners",
			Value: winners.String(),
		})
	}

	var losers strings.Builder
	for _, outcome := range settlement.Losers() {
		name := GetDisplayNameInt64(s, guildID, outcome.DiscordID)
		losers.WriteString(fmt.Sprintf("%s loses %s coins\n", name, FormatCoins(outcome.Amount)))
	}
	if losers.Len() > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Better luck next time",
			Value: losers.String(),
		})
	}

	return embed
}

// handleLiveBets lists the open bets on a matchup
func (b *Bot) handleLiveBets(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var messageIDStr string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "message_id" {
			messageIDStr = opt.StringValue()
		}
	}

	messageID, err := parseSnowflake(messageIDStr)
	if err != nil {
		b.respondWithError(s, i, "That doesn't look like a message ID.")
		return
	}

	bets, err := b.bettingService.GetLiveBets(ctx, messageID)
	if err != nil {
		log.Errorf("Failed to get live bets for %d: %v", messageID, err)
		b.respondWithError(s, i, "Unable to fetch live bets. Please try again.")
		return
	}
	if len(bets) == 0 {
		b.respond(s, i, "No bets on that matchup yet.")
		return
	}

	sideOne, sideTwo := "Side 1", "Side 2"
	if message, err := s.ChannelMessage(i.ChannelID, messageIDStr); err == nil {
		if one, two, ok := models.ParseMatchup(message.Content); ok {
			sideOne, sideTwo = one, two
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Live bets",
		Color: 0x3498db,
	}

	for _, side := range []models.Side{models.SideOne, models.SideTwo} {
		var lines strings.Builder
		for _, bet := range bets {
			if bet.Side != side {
				continue
			}
			name := GetDisplayNameInt64(s, i.GuildID, bet.DiscordID)
			lines.WriteString(fmt.Sprintf("%s: **%s coins**\n", name, FormatCoins(bet.Amount)))
		}
		if lines.Len() == 0 {
			lines.WriteString("No takers yet\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%s coins)", pickSideName(side, sideOne, sideTwo), FormatCoins(models.SideTotal(bets, side))),
			Value:  lines.String(),
			Inline: true,
		})
	}

	b.respondWithEmbed(s, i, embed)
}
