package creditrust

const (
	MinCreditScore int64 = 300
	MaxCreditScore int64 = 850
)

// apr tiers by minimum credit score, best first
var aprTiers = []struct {
	score int64
	apr   int64
}{
	{750, 500},
	{700, 800},
	{650, 1200},
	{600, 1600},
	{MinCreditScore, 2000},
}

// ValidCreditScore score in [300, 850]
func ValidCreditScore(score int64) bool {
	return score >= MinCreditScore && score <= MaxCreditScore
}

// APRForCreditScore apr in basis points, false when the score is out of range
func APRForCreditScore(score int64) (int64, bool) {
	if !ValidCreditScore(score) {
		return 0, false
	}

	for _, t := range aprTiers {
		if score >= t.score {
			return t.apr, true
		}
	}

	return 0, false
}

// ReputationForRepayment reputation gained by the assigned lender when a
// borrower closes a loan on time
func ReputationForRepayment(onTime bool) int64 {
	if onTime {
		return 10
	}

	return 1
}
