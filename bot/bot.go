package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"betsbot/events"
	"betsbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	BetsChannelName string
	OwnerDiscordID  int64
	MinStake        int64
}

type Bot struct {
	config            Config
	session           *discordgo.Session
	userService       service.UserService
	bettingService    service.BettingService
	settlementService service.SettlementService
	eventBus          *events.Bus

	// channel id -> is the bets channel, filled lazily
	channelMu    sync.Mutex
	betsChannels map[string]bool
}

func New(config Config, userService service.UserService, bettingService service.BettingService, settlementService service.SettlementService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:            config,
		session:           dg,
		userService:       userService,
		bettingService:    bettingService,
		settlementService: settlementService,
		eventBus:          eventBus,
		betsChannels:      make(map[string]bool),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Matchup detection and DM stake replies
	dg.AddHandler(bot.handleMessageCreate)

	// Reaction-driven bet entry
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.Infof("Bot connected as %s", dg.State.User.Username)

	// Surface the all-time record bet in the bot's presence
	eventBus.Subscribe(events.EventTypeHighestBetBroken, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.HighestBetBrokenEvent); ok {
			bot.updateRecordStatus(e.Amount)
		}
	})

	eventBus.Subscribe(events.EventTypeMatchupResolved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.MatchupResolvedEvent); ok {
			log.WithFields(log.Fields{
				"message_id":   e.MessageID,
				"winning_side": e.WinningSide,
				"resolver_id":  e.ResolverID,
				"total_paid":   e.TotalPaid,
			}).Info("Matchup settled")
		}
	})

	// Sync the presence with the stored record once the connection settles
	go func() {
		time.Sleep(2 * time.Second)
		record, err := bettingService.GetHighestBet(context.Background())
		if err != nil {
			log.Errorf("Failed to load record bet on startup: %v", err)
			return
		}
		if record != nil {
			bot.updateRecordStatus(record.Amount)
		}
	}()

	return bot, nil
}

// updateRecordStatus sets the bot's game status to the current record bet
func (b *Bot) updateRecordStatus(amount int64) {
	status := fmt.Sprintf("record bet: %s coins", FormatCoins(amount))
	if err := b.session.UpdateGameStatus(0, status); err != nil {
		log.Errorf("Failed to update status: %v", err)
	}
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// isBetsChannel reports whether a channel is the configured betting channel.
// Channel lookups go through Discord once and are cached after that.
func (b *Bot) isBetsChannel(channelID string) bool {
	b.channelMu.Lock()
	cached, ok := b.betsChannels[channelID]
	b.channelMu.Unlock()
	if ok {
		return cached
	}

	channel, err := b.session.Channel(channelID)
	if err != nil {
		log.Errorf("Failed to look up channel %s: %v", channelID, err)
		return false
	}

	isBets := channel.Name == b.config.BetsChannelName
	b.channelMu.Lock()
	b.betsChannels[channelID] = isBets
	b.channelMu.Unlock()
	return isBets
}

// isPrivileged reports whether the invoker may resolve matchups and grant
// coins: the configured owner, or a member who can manage the server or its
// messages.
func (b *Bot) isPrivileged(i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}
	if b.config.OwnerDiscordID != 0 {
		if id, err := strconv.ParseInt(i.Member.User.ID, 10, 64); err == nil && id == b.config.OwnerDiscordID {
			return true
		}
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionManageGuild != 0 ||
		perms&discordgo.PermissionManageMessages != 0
}

// authorizeResolve checks that the invoker may settle a matchup: a privileged
// member, or the matchup message's original poster. message may be nil when
// the matchup message was deleted; only privileged members may resolve then.
func (b *Bot) authorizeResolve(i *discordgo.InteractionCreate, message *discordgo.Message) error {
	if b.isPrivileged(i) {
		return nil
	}
	if message != nil && message.Author != nil && message.Author.ID == interactionUser(i).ID {
		return nil
	}
	return service.ErrNotAuthorized
}
