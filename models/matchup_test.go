package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMatchup(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sideOne  string
		sideTwo  string
		expected bool
	}{
		{
			name:     "basic matchup",
			content:  "1. Red Team vs 2. Blue Team",
			sideOne:  "Red Team",
			sideTwo:  "Blue Team",
			expected: true,
		},
		{
			name:     "case insensitive vs",
			content:  "1. Alice VS 2. Bob",
			sideOne:  "Alice",
			sideTwo:  "Bob",
			expected: true,
		},
		{
			name:     "leading and trailing whitespace",
			content:  "   1.  Fnatic   vs   2.  G2   ",
			sideOne:  "Fnatic",
			sideTwo:  "G2",
			expected: true,
		},
		{
			name:     "multiline side names",
			content:  "1. Team\nAlpha vs 2. Team Beta",
			sideOne:  "Team\nAlpha",
			sideTwo:  "Team Beta",
			expected: true,
		},
		{
			name:     "missing numbering",
			content:  "Red Team vs Blue Team",
			expected: false,
		},
		{
			name:     "missing second side",
			content:  "1. Red Team vs 2.",
			expected: false,
		},
		{
			name:     "vs without surrounding space",
			content:  "1. Redvs2. Blue",
			expected: false,
		},
		{
			name:     "plain chatter",
			content:  "who is winning tonight?",
			expected: false,
		},
		{
			name:     "empty message",
			content:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sideOne, sideTwo, ok := ParseMatchup(tt.content)
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, tt.sideOne, sideOne)
				assert.Equal(t, tt.sideTwo, sideTwo)
				assert.True(t, IsMatchup(tt.content))
			} else {
				assert.False(t, IsMatchup(tt.content))
			}
		})
	}
}

func TestSide_IsValid(t *testing.T) {
	assert.True(t, SideOne.IsValid())
	assert.True(t, SideTwo.IsValid())
	assert.False(t, Side(0).IsValid())
	assert.False(t, Side(3).IsValid())
}

func TestSideFromEmoji(t *testing.T) {
	assert.Equal(t, SideOne, SideFromEmoji("1️⃣"))
	assert.Equal(t, SideTwo, SideFromEmoji("2️⃣"))
	assert.Equal(t, Side(0), SideFromEmoji("🎉"))
}

func TestHighestBet_IsBrokenBy(t *testing.T) {
	record := &HighestBet{Amount: 500}
	assert.True(t, record.IsBrokenBy(501))
	assert.False(t, record.IsBrokenBy(500))
	assert.False(t, record.IsBrokenBy(499))
}
