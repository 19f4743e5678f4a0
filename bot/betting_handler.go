package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"betsbot/models"
	"betsbot/service"
)

// handleMessageCreate routes guild messages to matchup detection and direct
// messages to the stake confirmation flow.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if m.GuildID == "" {
		b.handleStakeReply(s, m)
		return
	}

	b.handleMatchupPost(s, m)
}

// handleMatchupPost seeds the two side reactions under a freshly posted
// matchup in the betting channel.
func (b *Bot) handleMatchupPost(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.isBetsChannel(m.ChannelID) {
		return
	}
	if !models.IsMatchup(m.Content) {
		return
	}

	for _, side := range []models.Side{models.SideOne, models.SideTwo} {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, side.Emoji()); err != nil {
			log.Errorf("Failed to add %s reaction to matchup %s: %v", side.Emoji(), m.ID, err)
		}
	}
}

// handleReactionAdd opens a DM stake prompt when a user picks a side on a
// matchup message.
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	ctx := context.Background()

	if r.UserID == s.State.User.ID {
		return
	}
	if !b.isBetsChannel(r.ChannelID) {
		return
	}

	side := models.SideFromEmoji(r.Emoji.Name)
	if side == 0 {
		return
	}

	message, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.Errorf("Failed to fetch message %s: %v", r.MessageID, err)
		return
	}
	sideOne, sideTwo, ok := models.ParseMatchup(message.Content)
	if !ok {
		return
	}

	discordID, err := parseSnowflake(r.UserID)
	if err != nil {
		log.Errorf("Failed to parse reactor ID %s: %v", r.UserID, err)
		return
	}
	messageID, err := parseSnowflake(r.MessageID)
	if err != nil {
		log.Errorf("Failed to parse message ID %s: %v", r.MessageID, err)
		return
	}
	channelID, err := parseSnowflake(r.ChannelID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", r.ChannelID, err)
		return
	}

	user, err := b.userService.GetOrCreateUser(ctx, discordID, GetDisplayName(s, r.GuildID, r.UserID))
	if err != nil {
		log.Errorf("Failed to get user %d: %v", discordID, err)
		return
	}

	// One bet per user per matchup
	existing, err := b.bettingService.GetBet(ctx, messageID, discordID)
	if err != nil {
		log.Errorf("Failed to check existing bet: %v", err)
		return
	}
	if existing != nil {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID); err != nil {
			log.Warnf("Failed to remove reaction for %d: %v", discordID, err)
		}
		b.sendDM(s, r.UserID, fmt.Sprintf("You already have **%s coins** on **%s** for that matchup. Bets are final.",
			FormatCoins(existing.Amount), pickSideName(existing.Side, sideOne, sideTwo)))
		return
	}

	if _, err := b.bettingService.StartPendingStake(ctx, discordID, messageID, channelID, side); err != nil {
		log.Errorf("Failed to start pending stake for %d: %v", discordID, err)
		return
	}

	b.sendDM(s, r.UserID, fmt.Sprintf(
		"You picked **%s** in **%s vs %s**.\nYour balance is **%s coins**. Reply with the amount you want to stake, or `cancel`.",
		pickSideName(side, sideOne, sideTwo), sideOne, sideTwo, FormatCoins(user.Balance)))
}

// handleReactionRemove withdraws an open stake prompt when the user removes
// their side reaction. Placed bets are unaffected.
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	ctx := context.Background()

	if r.UserID == s.State.User.ID {
		return
	}
	if !b.isBetsChannel(r.ChannelID) {
		return
	}
	if models.SideFromEmoji(r.Emoji.Name) == 0 {
		return
	}

	discordID, err := parseSnowflake(r.UserID)
	if err != nil {
		return
	}
	messageID, err := parseSnowflake(r.MessageID)
	if err != nil {
		return
	}

	cancelled, err := b.bettingService.CancelPendingStake(ctx, discordID, messageID)
	if err != nil {
		log.Errorf("Failed to cancel pending stake for %d: %v", discordID, err)
		return
	}
	if cancelled {
		b.sendDM(s, r.UserID, "Your stake prompt was withdrawn. React again if you change your mind.")
	}
}

// handleStakeReply turns a DM reply into a confirmed bet
func (b *Bot) handleStakeReply(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	discordID, err := parseSnowflake(m.Author.ID)
	if err != nil {
		return
	}

	pending, err := b.bettingService.GetPendingStake(ctx, discordID)
	if err != nil {
		log.Errorf("Failed to get pending stake for %d: %v", discordID, err)
		return
	}
	if pending == nil {
		return
	}

	content := strings.TrimSpace(m.Content)
	if strings.EqualFold(content, "cancel") {
		if _, err := b.bettingService.CancelPendingStake(ctx, discordID, pending.MessageID); err != nil {
			log.Errorf("Failed to cancel pending stake for %d: %v", discordID, err)
			return
		}
		b.replyDM(s, m.ChannelID, "Cancelled. React on a matchup whenever you want back in.")
		return
	}

	amount, err := strconv.ParseInt(content, 10, 64)
	if err != nil {
		b.replyDM(s, m.ChannelID, "Reply with a whole number of coins, or `cancel`.")
		return
	}

	receipt, err := b.bettingService.ConfirmPendingStake(ctx, discordID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStake):
			b.replyDM(s, m.ChannelID, fmt.Sprintf("The minimum stake is **%s coins**. Try again.", FormatCoins(b.config.MinStake)))
		case errors.Is(err, service.ErrInsufficientBalance):
			b.replyDM(s, m.ChannelID, "You don't have that many coins. Try a smaller amount.")
		case errors.Is(err, service.ErrDuplicateBet):
			b.replyDM(s, m.ChannelID, "You already have a bet on that matchup. Bets are final.")
		default:
			log.Errorf("Failed to confirm stake for %d: %v", discordID, err)
			b.replyDM(s, m.ChannelID, "Something went wrong placing your bet. Try again.")
		}
		return
	}

	reply := fmt.Sprintf("Bet placed: **%s coins** on side %d. Your balance is now **%s coins**. Good luck!",
		FormatCoins(receipt.Bet.Amount), receipt.Bet.Side, FormatCoins(receipt.NewBalance))
	b.replyDM(s, m.ChannelID, reply)

	if receipt.RecordBroken {
		b.announceRecord(s, pending.ChannelID, discordID, receipt.Bet.Amount)
	}
}

// announceRecord posts the new all-time record in the betting channel
func (b *Bot) announceRecord(s *discordgo.Session, channelID int64, discordID, amount int64) {
	channel := strconv.FormatInt(channelID, 10)
	message := fmt.Sprintf("🏆 <@%d> just placed the biggest bet ever seen here: **%s coins**!",
		discordID, FormatCoins(amount))
	if _, err := s.ChannelMessageSend(channel, message); err != nil {
		log.Errorf("Failed to announce record bet: %v", err)
	}
}

func pickSideName(side models.Side, sideOne, sideTwo string) string {
	if side == models.SideOne {
		return sideOne
	}
	return sideTwo
}

// sendDM opens (or reuses) a DM channel with a user and sends a message
func (b *Bot) sendDM(s *discordgo.Session, userID, message string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Errorf("Failed to open DM with %s: %v", userID, err)
		return
	}
	if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
		log.Errorf("Failed to DM %s: %v", userID, err)
	}
}

// replyDM sends a message into an already open DM channel
func (b *Bot) replyDM(s *discordgo.Session, channelID, message string) {
	if _, err := s.ChannelMessageSend(channelID, message); err != nil {
		log.Errorf("Failed to reply in DM %s: %v", channelID, err)
	}
}
