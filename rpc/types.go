package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"

	"giglend/crypto"
	"giglend/native/credit"
	"giglend/native/lending"
)

// decodeParams expects exactly one positional object parameter.
func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("expected exactly one parameter object, got %d", len(req.Params))
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return fmt.Errorf("invalid parameter object: %w", err)
	}
	return nil
}

func parseAddress(field, value string) (crypto.Address, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("%s: %w", field, err)
	}
	return addr, nil
}

// parseAmount reads a base-10 integer amount in the smallest fixed-point
// unit. Negative values pass through; positivity is a core policy question,
// not a transport one.
func parseAmount(field, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer amount %q", field, value)
	}
	return amount, nil
}

type CreditProfileResult struct {
	User              string   `json:"user"`
	TotalIncome       string   `json:"totalIncome"`
	AvgMonthlyIncome  string   `json:"avgMonthlyIncome"`
	PaymentHistory    uint32   `json:"paymentHistory"`
	GigPlatforms      []string `json:"gigPlatforms"`
	VerificationLevel uint32   `json:"verificationLevel"`
	CreditScore       uint32   `json:"creditScore"`
	LastUpdated       uint64   `json:"lastUpdated"`
}

func newCreditProfileResult(p *credit.Profile) *CreditProfileResult {
	if p == nil {
		return nil
	}
	platforms := p.GigPlatforms
	if platforms == nil {
		platforms = []string{}
	}
	return &CreditProfileResult{
		User:              p.User.String(),
		TotalIncome:       p.TotalIncome.String(),
		AvgMonthlyIncome:  p.AvgMonthlyIncome.String(),
		PaymentHistory:    p.PaymentHistory,
		GigPlatforms:      platforms,
		VerificationLevel: p.VerificationLevel,
		CreditScore:       p.CreditScore,
		LastUpdated:       p.LastUpdated,
	}
}

type LoanResult struct {
	LoanID       uint64 `json:"loanId"`
	Borrower     string `json:"borrower"`
	Amount       string `json:"amount"`
	Collateral   string `json:"collateral"`
	InterestRate uint32 `json:"interestRateBps"`
	Duration     uint64 `json:"duration"`
	CreatedAt    uint64 `json:"createdAt"`
	DueDate      uint64 `json:"dueDate"`
	Active       bool   `json:"isActive"`
	CreditScore  uint32 `json:"creditScore"`
}

func newLoanResult(id uint64, l *lending.Loan) *LoanResult {
	if l == nil {
		return nil
	}
	return &LoanResult{
		LoanID:       id,
		Borrower:     l.Borrower.String(),
		Amount:       l.Amount.String(),
		Collateral:   l.Collateral.String(),
		InterestRate: l.InterestRate,
		Duration:     l.Duration,
		CreatedAt:    l.CreatedAt,
		DueDate:      l.DueDate,
		Active:       l.Active,
		CreditScore:  l.CreditScore,
	}
}
