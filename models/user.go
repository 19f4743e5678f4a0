package models

import (
	"time"
)

// User represents a Discord user with a coin balance
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MinBalance is the floor applied to every balance write.
// Balances never drop below 1 coin.
const MinBalance int64 = 1

// ClampBalance applies the write-time balance floor.
func ClampBalance(balance int64) int64 {
	if balance < MinBalance {
		return MinBalance
	}
	return balance
}
