package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeBetStake    TransactionType = "bet_stake"
	TransactionTypeBetPayout   TransactionType = "bet_payout"
	TransactionTypeBetLoss     TransactionType = "bet_loss"
	TransactionTypeAdminAdjust TransactionType = "admin_adjust"
)

// BalanceHistory represents a historical balance change. Bet rows are deleted
// at settlement, so this table is the only durable record of past bets.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedMessageID    *int64          `db:"related_message_id"`
	CreatedAt           time.Time       `db:"created_at"`
}
