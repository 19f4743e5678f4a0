package testutil

import (
	"time"

	"betsbot/models"
)

// CreateTestBet builds a bet with sensible defaults
func CreateTestBet(messageID, discordID int64, side models.Side, amount int64) *models.Bet {
	return &models.Bet{
		MessageID: messageID,
		DiscordID: discordID,
		Side:      side,
		Amount:    amount,
	}
}

// CreateTestPendingStake builds a pending stake that expires in an hour
func CreateTestPendingStake(discordID, messageID int64, side models.Side) *models.PendingStake {
	return &models.PendingStake{
		DiscordID: discordID,
		MessageID: messageID,
		ChannelID: 789012,
		Side:      side,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// CreateTestHighestBet builds a record bet entry
func CreateTestHighestBet(discordID, messageID, amount int64) *models.HighestBet {
	return &models.HighestBet{
		DiscordID: discordID,
		MessageID: messageID,
		Side:      models.SideOne,
		Amount:    amount,
	}
}

// CreateTestBalanceHistory builds a balance history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   100,
		BalanceAfter:    60,
		ChangeAmount:    -40,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
