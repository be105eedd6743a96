package credit

import "math/big"

// Score bounds and replacement defaults applied on every profile write.
const (
	MinScore = 300
	MaxScore = 850

	InitialPaymentHistory    = 500
	InitialVerificationLevel = 3
)

// Income thresholds, denominated in the smallest fixed-point unit used across
// the ledger. Tier checks walk from the highest threshold down and the first
// match wins.
var (
	monthlyTierTop = big.NewInt(3_000)
	monthlyTierMid = big.NewInt(2_000)
	monthlyTierLow = big.NewInt(1_000)

	totalTierTop = big.NewInt(50_000)
	totalTierMid = big.NewInt(25_000)
)

const platformBonus = 25

// Score derives the credit score from self-reported financial signals. The
// function is pure: identical inputs always produce identical scores, and the
// result is clamped to MaxScore. There is no failure mode.
func Score(totalIncome, avgMonthlyIncome *big.Int, platformCount int) uint32 {
	if totalIncome == nil {
		totalIncome = big.NewInt(0)
	}
	if avgMonthlyIncome == nil {
		avgMonthlyIncome = big.NewInt(0)
	}

	score := uint64(MinScore)

	switch {
	case avgMonthlyIncome.Cmp(monthlyTierTop) > 0:
		score += 200
	case avgMonthlyIncome.Cmp(monthlyTierMid) > 0:
		score += 150
	case avgMonthlyIncome.Cmp(monthlyTierLow) > 0:
		score += 100
	default:
		score += 50
	}

	if platformCount > 0 {
		score += uint64(platformCount) * platformBonus
	}

	switch {
	case totalIncome.Cmp(totalTierTop) > 0:
		score += 100
	case totalIncome.Cmp(totalTierMid) > 0:
		score += 50
	}

	if score > MaxScore {
		score = MaxScore
	}
	return uint32(score)
}
