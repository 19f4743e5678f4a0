package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Bot configuration
	BetsChannelName string // channel watched for matchup messages
	OwnerDiscordID  int64  // optional; owner may resolve any matchup and adjust balances
	StartingBalance int64
	MinStake        int64
	PendingStakeTTL time.Duration // how long a DM stake prompt stays open

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Bot settings with defaults
		BetsChannelName: "🎰〡bets",
		StartingBalance: 100,
		MinStake:        1,
		PendingStakeTTL: 30 * time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if name := os.Getenv("BETS_CHANNEL_NAME"); name != "" {
		config.BetsChannelName = name
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if stake := os.Getenv("MIN_STAKE"); stake != "" {
		if parsedStake, err := strconv.ParseInt(stake, 10, 64); err == nil {
			config.MinStake = parsedStake
		}
	}
	if ttl := os.Getenv("PENDING_STAKE_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil && minutes > 0 {
			config.PendingStakeTTL = time.Duration(minutes) * time.Minute
		}
	}
	if owner := os.Getenv("OWNER_ID"); owner != "" {
		if id, err := strconv.ParseInt(owner, 10, 64); err == nil {
			config.OwnerDiscordID = id
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
