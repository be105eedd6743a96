package lending

import (
	"strconv"

	"giglend/core/types"
)

const (
	EventTypeLoanOriginated    = "lending.loan_originated"
	EventTypeLiquidityProvided = "lending.liquidity_provided"
)

// NewLoanOriginatedEvent returns the canonical event payload for a freshly
// originated loan.
func NewLoanOriginatedEvent(id uint64, l *Loan) *types.Event {
	attrs := map[string]string{
		"loanId": strconv.FormatUint(id, 10),
	}
	if l != nil {
		attrs["borrower"] = l.Borrower.String()
		if l.Amount != nil {
			attrs["amount"] = l.Amount.String()
		}
		if l.Collateral != nil {
			attrs["collateral"] = l.Collateral.String()
		}
		attrs["interestRateBps"] = strconv.FormatUint(uint64(l.InterestRate), 10)
		attrs["dueDate"] = strconv.FormatUint(l.DueDate, 10)
	}
	return &types.Event{Type: EventTypeLoanOriginated, Attributes: attrs}
}

// NewLiquidityProvidedEvent returns the canonical event payload for a pool
// deposit.
func NewLiquidityProvidedEvent(d *LiquidityDeposit) *types.Event {
	attrs := map[string]string{}
	if d != nil {
		attrs["provider"] = d.Provider.String()
		if d.Amount != nil {
			attrs["amount"] = d.Amount.String()
		}
		attrs["apyBps"] = strconv.FormatUint(uint64(d.APY), 10)
		attrs["providedAt"] = strconv.FormatUint(d.ProvidedAt, 10)
	}
	return &types.Event{Type: EventTypeLiquidityProvided, Attributes: attrs}
}
