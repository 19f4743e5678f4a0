package models

import (
	"math"
	"time"
)

// Bet represents a single user's stake on one side of a matchup.
// The (MessageID, DiscordID) pair is unique: a user holds at most one bet
// per matchup.
type Bet struct {
	MessageID int64     `db:"message_id"`
	DiscordID int64     `db:"discord_id"`
	Side      Side      `db:"side"`
	Amount    int64     `db:"amount"`
	Resolved  bool      `db:"resolved"`
	CreatedAt time.Time `db:"created_at"`
}

// Odds bounds for the parimutuel payout formula. The bonus multiplier applied
// to a winner's stake never leaves [MinOdds, MaxOdds].
const (
	MinOdds = 0.25
	MaxOdds = 1.0
)

// CalculateOdds computes the bonus multiplier for the winning side.
// With no money on either side the pot is degenerate and every winner simply
// doubles their stake. Otherwise the losing/winning ratio is clamped so
// underdog winners earn up to a full double while heavily favored winners
// still clear a 1.25x total return.
func CalculateOdds(totalWinning, totalLosing int64) float64 {
	if totalWinning == 0 || totalLosing == 0 {
		return MaxOdds
	}
	ratio := float64(totalLosing) / float64(totalWinning)
	return math.Max(MinOdds, math.Min(MaxOdds, ratio))
}

// CalculatePayout returns the total credited to a winning bet: the stake back
// plus the bonus, truncated toward zero. Never round up here.
func (b *Bet) CalculatePayout(odds float64) int64 {
	return b.Amount + int64(math.Floor(float64(b.Amount)*odds))
}

// BetReceipt represents the outcome of a confirmed bet placement
type BetReceipt struct {
	Bet          *Bet
	NewBalance   int64
	RecordBroken bool // true when this stake took the all-time record
}

// SideTotal sums the stakes on one side of a bet list
func SideTotal(bets []*Bet, side Side) int64 {
	var total int64
	for _, b := range bets {
		if b.Side == side {
			total += b.Amount
		}
	}
	return total
}
