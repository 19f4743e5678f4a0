package models

import "time"

// HighestBet is the singleton record of the single largest stake ever placed.
// It is updated opportunistically when a new bet strictly exceeds the stored
// amount and is never recomputed from bet rows, so it only moves upward.
type HighestBet struct {
	DiscordID int64     `db:"discord_id"`
	MessageID int64     `db:"message_id"`
	Side      Side      `db:"side"`
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsBrokenBy reports whether a new stake takes the record. Ties never
// overwrite the standing record.
func (h *HighestBet) IsBrokenBy(amount int64) bool {
	return amount > h.Amount
}
