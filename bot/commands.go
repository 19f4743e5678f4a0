package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check a balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose balance to check (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "addcoins",
			Description: "Grant or remove coins (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to adjust",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to add (negative to remove)",
					Required:    true,
				},
			},
		},
		{
			Name:        "bet",
			Description: "Bet on a matchup without the reaction flow",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "ID of the matchup message",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "side",
					Description: "Side to back (1 or 2)",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Side 1", Value: 1},
						{Name: "Side 2", Value: 2},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Coins to stake",
					Required:    true,
				},
			},
		},
		{
			Name:        "resolve",
			Description: "Declare the winning side of a matchup (admins only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "ID of the matchup message",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winning_side",
					Description: "The side that won (1 or 2)",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Side 1", Value: 1},
						{Name: "Side 2", Value: 2},
					},
				},
			},
		},
		{
			Name:        "livebets",
			Description: "Show the open bets on a matchup",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "ID of the matchup message",
					Required:    true,
				},
			},
		},
		{
			Name:        "highestbet",
			Description: "Show the biggest bet ever placed",
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest bettors",
		},
		{
			Name:        "help",
			Description: "How the betting bot works",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.handleBalance(s, i)
	case "addcoins":
		b.handleAddCoins(s, i)
	case "bet":
		b.handleBetCommand(s, i)
	case "resolve":
		b.handleResolve(s, i)
	case "livebets":
		b.handleLiveBets(s, i)
	case "highestbet":
		b.handleHighestBet(s, i)
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "help":
		b.handleHelp(s, i)
	}
}
