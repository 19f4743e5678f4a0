package models

import (
	"regexp"
	"strings"
)

// Side identifies one of the two outcomes of a matchup
type Side int16

const (
	SideOne Side = 1
	SideTwo Side = 2
)

// IsValid checks that the side is one of the two allowed values
func (s Side) IsValid() bool {
	return s == SideOne || s == SideTwo
}

// Emoji returns the reaction symbol for this side
func (s Side) Emoji() string {
	if s == SideOne {
		return "1️⃣"
	}
	return "2️⃣"
}

// SideFromEmoji maps a reaction symbol back to a side.
// Returns 0 for anything that isn't one of the two matchup symbols.
func SideFromEmoji(emoji string) Side {
	switch emoji {
	case "1️⃣":
		return SideOne
	case "2️⃣":
		return SideTwo
	}
	return 0
}

// matchupPattern matches "1. <side one> vs 2. <side two>", case-insensitive
// and whitespace-tolerant.
var matchupPattern = regexp.MustCompile(`(?is)^\s*1\.\s*(.+?)\s+vs\s+2\.\s*(.+?)\s*$`)

// ParseMatchup extracts the two side names from a message body.
// Returns false when the text does not follow the matchup format.
func ParseMatchup(content string) (sideOne, sideTwo string, ok bool) {
	m := matchupPattern.FindStringSubmatch(content)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// IsMatchup reports whether a message body follows the matchup format
func IsMatchup(content string) bool {
	return matchupPattern.MatchString(content)
}
