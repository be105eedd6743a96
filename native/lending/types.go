package lending

import (
	"math/big"

	"giglend/crypto"
)

const (
	// ProviderAPYBps is the fixed APY stamped on every liquidity deposit,
	// expressed in basis points.
	ProviderAPYBps = 800
	// MinCollateralBps is the minimum collateralization ratio for new loans,
	// expressed in basis points of the principal (150%).
	MinCollateralBps = 15_000
)

// Loan is the immutable record written at origination. It is never edited in
// place; repayment and liquidation live outside this core.
type Loan struct {
	// Borrower is the identity the principal was issued to.
	Borrower crypto.Address
	// Amount is the principal, in the smallest fixed-point unit.
	Amount *big.Int
	// Collateral is the amount pledged against the principal.
	Collateral *big.Int
	// InterestRate is the resolved rate in basis points (100 = 1%).
	InterestRate uint32
	// Duration is the loan term in seconds.
	Duration uint64
	// CreatedAt is the ledger timestamp at origination.
	CreatedAt uint64
	// DueDate is CreatedAt + Duration.
	DueDate uint64
	// Active is set at origination and never cleared by this core.
	Active bool
	// CreditScore snapshots the borrower's score at origination.
	CreditScore uint32
}

// Clone returns a deep copy of the loan record.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	clone := &Loan{
		Borrower:     l.Borrower,
		InterestRate: l.InterestRate,
		Duration:     l.Duration,
		CreatedAt:    l.CreatedAt,
		DueDate:      l.DueDate,
		Active:       l.Active,
		CreditScore:  l.CreditScore,
	}
	if l.Amount != nil {
		clone.Amount = new(big.Int).Set(l.Amount)
	}
	if l.Collateral != nil {
		clone.Collateral = new(big.Int).Set(l.Collateral)
	}
	return clone
}

// LiquidityDeposit is one lender contribution to the shared pool. A provider
// may hold any number of deposits; records are append-only.
type LiquidityDeposit struct {
	// Provider is the lender identity.
	Provider crypto.Address
	// Amount is the deposited value in the smallest fixed-point unit.
	Amount *big.Int
	// APY is the rate fixed at deposit time, in basis points.
	APY uint32
	// ProvidedAt is the ledger timestamp of the deposit.
	ProvidedAt uint64
	// AccruedInterest is reserved for future accrual and stays zero.
	AccruedInterest *big.Int
	// Active is set on creation.
	Active bool
}

// Clone returns a deep copy of the deposit record.
func (d *LiquidityDeposit) Clone() *LiquidityDeposit {
	if d == nil {
		return nil
	}
	clone := &LiquidityDeposit{
		Provider:   d.Provider,
		APY:        d.APY,
		ProvidedAt: d.ProvidedAt,
		Active:     d.Active,
	}
	if d.Amount != nil {
		clone.Amount = new(big.Int).Set(d.Amount)
	}
	if d.AccruedInterest != nil {
		clone.AccruedInterest = new(big.Int).Set(d.AccruedInterest)
	}
	return clone
}
