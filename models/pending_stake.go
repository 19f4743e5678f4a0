package models

import "time"

// PendingStake tracks a bet a user has started by reacting but not yet
// confirmed with a stake amount over DM. Rows are persisted so an in-flight
// bet survives a restart, and expire after a configurable TTL so abandoned
// prompts don't linger forever.
type PendingStake struct {
	DiscordID int64     `db:"discord_id"`
	MessageID int64     `db:"message_id"`
	ChannelID int64     `db:"channel_id"`
	Side      Side      `db:"side"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// IsExpired reports whether the prompt has passed its expiry
func (p *PendingStake) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
