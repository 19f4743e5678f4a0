package models

// BettorOutcome represents one bettor's result at settlement
type BettorOutcome struct {
	DiscordID int64
	Side      Side
	Amount    int64
	Won       bool
	Payout    int64
}

// Settlement represents the outcome of resolving a matchup
type Settlement struct {
	MessageID    int64
	WinningSide  Side
	Odds         float64
	TotalWinning int64
	TotalLosing  int64
	Outcomes     []*BettorOutcome
}

// Winners returns the outcomes for bettors on the winning side
func (s *Settlement) Winners() []*BettorOutcome {
	var winners []*BettorOutcome
	for _, o := range s.Outcomes {
		if o.Won {
			winners = append(winners, o)
		}
	}
	return winners
}

// Losers returns the outcomes for bettors on the losing side
func (s *Settlement) Losers() []*BettorOutcome {
	var losers []*BettorOutcome
	for _, o := range s.Outcomes {
		if !o.Won {
			losers = append(losers, o)
		}
	}
	return losers
}

// TotalPaidOut sums every winner's payout
func (s *Settlement) TotalPaidOut() int64 {
	var total int64
	for _, o := range s.Outcomes {
		total += o.Payout
	}
	return total
}
