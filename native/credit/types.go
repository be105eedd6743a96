package credit

import (
	"math/big"

	"giglend/crypto"
)

// Profile captures the self-reported financial state of a gig worker together
// with the score derived from it. Income values are denominated in the
// smallest fixed-point unit and expressed as big integers to match ledger
// precision.
type Profile struct {
	// User is the identity owning the profile.
	User crypto.Address
	// TotalIncome is the aggregate income reported across all platforms.
	TotalIncome *big.Int
	// AvgMonthlyIncome is the reported monthly average.
	AvgMonthlyIncome *big.Int
	// PaymentHistory is a 0-1000 repayment history score. Every profile write
	// resets it to InitialPaymentHistory; repayment tracking is out of scope.
	PaymentHistory uint32
	// GigPlatforms lists the platforms the worker earns on, in the order they
	// were reported. Duplicates are kept.
	GigPlatforms []string
	// VerificationLevel is a 0-5 identity verification tier, reset to
	// InitialVerificationLevel on every write.
	VerificationLevel uint32
	// CreditScore is the derived score in [MinScore, MaxScore].
	CreditScore uint32
	// LastUpdated is the ledger timestamp of the most recent write.
	LastUpdated uint64
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := &Profile{
		User:              p.User,
		PaymentHistory:    p.PaymentHistory,
		VerificationLevel: p.VerificationLevel,
		CreditScore:       p.CreditScore,
		LastUpdated:       p.LastUpdated,
	}
	if p.TotalIncome != nil {
		clone.TotalIncome = new(big.Int).Set(p.TotalIncome)
	}
	if p.AvgMonthlyIncome != nil {
		clone.AvgMonthlyIncome = new(big.Int).Set(p.AvgMonthlyIncome)
	}
	if p.GigPlatforms != nil {
		clone.GigPlatforms = append([]string(nil), p.GigPlatforms...)
	}
	return clone
}
