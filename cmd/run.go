package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"betsbot/bot"
	"betsbot/config"
	"betsbot/database"
	"betsbot/events"
	"betsbot/repository"
	"betsbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting bets bot...")

	// Load configuration
	cfg := config.Get()

	// Apply pending schema migrations before anything touches the database
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	userService := service.NewUserService(uowFactory, cfg)
	bettingService := service.NewBettingService(uowFactory, cfg)
	settlementService := service.NewSettlementService(uowFactory)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.DiscordGuildID,
		BetsChannelName: cfg.BetsChannelName,
		OwnerDiscordID:  cfg.OwnerDiscordID,
		MinStake:        cfg.MinStake,
	}
	discordBot, err := bot.New(botConfig, userService, bettingService, settlementService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// Background sweep of expired stake prompts
	sweeper := discordBot.StartWorkers()

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	sweepCtx := sweeper.Stop()
	select {
	case <-sweepCtx.Done():
	case <-time.After(5 * time.Second):
		log.Println("Timed out waiting for background jobs")
	}

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
