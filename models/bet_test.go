package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOdds(t *testing.T) {
	tests := []struct {
		name         string
		totalWinning int64
		totalLosing  int64
		expected     float64
	}{
		{name: "no losing pool pays even", totalWinning: 40, totalLosing: 0, expected: 1.0},
		{name: "no winning pool pays even", totalWinning: 0, totalLosing: 500, expected: 1.0},
		{name: "both pools empty pays even", totalWinning: 0, totalLosing: 0, expected: 1.0},
		{name: "losing third of winning", totalWinning: 300, totalLosing: 100, expected: 1.0 / 3.0},
		{name: "clamped to max", totalWinning: 100, totalLosing: 1000, expected: 1.0},
		{name: "clamped to min", totalWinning: 1000, totalLosing: 50, expected: 0.25},
		{name: "exactly at min", totalWinning: 400, totalLosing: 100, expected: 0.25},
		{name: "balanced pools", totalWinning: 250, totalLosing: 250, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateOdds(tt.totalWinning, tt.totalLosing), 1e-9)
		})
	}
}

func TestBet_CalculatePayout(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		odds     float64
		expected int64
	}{
		{name: "even odds double the stake", amount: 40, odds: 1.0, expected: 80},
		{name: "fractional winnings truncate", amount: 5, odds: 0.25, expected: 6},
		{name: "third odds on thirty lands on a whole coin", amount: 30, odds: 1.0 / 3.0, expected: 40},
		{name: "quarter odds", amount: 40, odds: 0.25, expected: 50},
		{name: "single coin at even odds", amount: 1, odds: 1.0, expected: 2},
		{name: "single coin at quarter odds keeps stake", amount: 1, odds: 0.25, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := &Bet{Amount: tt.amount}
			assert.Equal(t, tt.expected, bet.CalculatePayout(tt.odds))
		})
	}
}

// The 100-on-300 pool ratio is not representable exactly, but the float64
// product for a 30-coin stake rounds to 10.0 before the floor, so the bonus
// is a full 10 coins.
func TestBet_CalculatePayout_ThirdPoolRatio(t *testing.T) {
	odds := CalculateOdds(300, 100)
	bet := &Bet{Amount: 30}
	assert.Equal(t, int64(40), bet.CalculatePayout(odds))
}

func TestSideTotal(t *testing.T) {
	bets := []*Bet{
		{DiscordID: 1, Side: SideOne, Amount: 30},
		{DiscordID: 2, Side: SideTwo, Amount: 100},
		{DiscordID: 3, Side: SideOne, Amount: 270},
	}

	assert.Equal(t, int64(300), SideTotal(bets, SideOne))
	assert.Equal(t, int64(100), SideTotal(bets, SideTwo))
}
