package lending

import (
	"errors"
	"math/big"

	"giglend/crypto"
	nativecommon "giglend/native/common"
)

var (
	errNilState = errors.New("lending engine: state not configured")
	errNilClock = errors.New("lending engine: ledger clock not configured")

	// ErrInsufficientLiquidity rejects originations larger than the pool.
	ErrInsufficientLiquidity = errors.New("lending engine: insufficient liquidity")
	// ErrProfileNotFound rejects originations for borrowers without a stored
	// credit profile. There is no implicit default profile.
	ErrProfileNotFound = errors.New("lending engine: credit profile not found")
	// ErrInsufficientCollateral rejects loans collateralized below 150% of
	// the principal.
	ErrInsufficientCollateral = errors.New("lending engine: insufficient collateral")
)

var basisPoints = big.NewInt(10_000)

type engineState interface {
	GetLoan(id uint64) (*Loan, bool, error)
	PutLoan(id uint64, loan *Loan) error
	LoanCounter() (uint64, error)
	SetLoanCounter(counter uint64) error
	Deposits(provider crypto.Address) ([]*LiquidityDeposit, error)
	PutDeposits(provider crypto.Address, deposits []*LiquidityDeposit) error
	TotalLiquidity() (*big.Int, error)
	SetTotalLiquidity(total *big.Int) error
	RateTable() (RateTable, error)
	CreditScore(addr crypto.Address) (uint32, bool, error)
}

// Engine orchestrates liquidity deposits and loan origination. Every public
// method runs as one atomic unit under the host's call serialisation: all
// reads and precondition checks happen before the first write, so a failed
// call never leaves a partial mutation behind.
type Engine struct {
	state  engineState
	auth   nativecommon.Authorizer
	pauses nativecommon.PauseView
	now    func() uint64
}

func NewEngine() *Engine {
	return &Engine{auth: nativecommon.IdentityAuthorizer{}}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAuthorizer overrides the caller-identity policy.
func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) {
	if e == nil {
		return
	}
	e.auth = auth
}

// SetPauses wires the protocol pause switch.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetNowFunc wires the ledger timestamp source.
func (e *Engine) SetNowFunc(now func() uint64) {
	if e == nil {
		return
	}
	e.now = now
}

// ProvideLiquidity appends a deposit record for the provider and grows the
// aggregate pool by the deposited amount. The APY is fixed at deposit time.
// Zero and negative amounts are not rejected here; business-range validation
// belongs to the caller.
func (e *Engine) ProvideLiquidity(caller, provider crypto.Address, amount *big.Int) (*LiquidityDeposit, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.now == nil {
		return nil, errNilClock
	}
	if e.auth != nil {
		if err := e.auth.RequireAuth(caller, provider); err != nil {
			return nil, err
		}
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return nil, err
	}
	if amount == nil {
		amount = big.NewInt(0)
	}

	deposits, err := e.state.Deposits(provider)
	if err != nil {
		return nil, err
	}
	total, err := e.state.TotalLiquidity()
	if err != nil {
		return nil, err
	}

	deposit := &LiquidityDeposit{
		Provider:        provider,
		Amount:          new(big.Int).Set(amount),
		APY:             ProviderAPYBps,
		ProvidedAt:      e.now(),
		AccruedInterest: big.NewInt(0),
		Active:          true,
	}

	deposits = append(deposits, deposit)
	if err := e.state.PutDeposits(provider, deposits); err != nil {
		return nil, err
	}
	if err := e.state.SetTotalLiquidity(new(big.Int).Add(total, amount)); err != nil {
		return nil, err
	}
	return deposit.Clone(), nil
}

// RequestLoan validates and originates a loan, returning the new loan id.
// Preconditions run in a fixed order and each failure is a distinct
// condition: caller identity, pause switch, pool liquidity, stored credit
// profile, collateralization. Only after every check passes does the engine
// persist the loan, debit the pool and advance the counter.
func (e *Engine) RequestLoan(caller, borrower crypto.Address, amount, collateral *big.Int, duration uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if e.now == nil {
		return 0, errNilClock
	}
	if e.auth != nil {
		if err := e.auth.RequireAuth(caller, borrower); err != nil {
			return 0, err
		}
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return 0, err
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if collateral == nil {
		collateral = big.NewInt(0)
	}

	total, err := e.state.TotalLiquidity()
	if err != nil {
		return 0, err
	}
	if total.Cmp(amount) < 0 {
		return 0, ErrInsufficientLiquidity
	}

	score, ok, err := e.state.CreditScore(borrower)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrProfileNotFound
	}

	// collateral >= amount * 150% with integer truncation.
	minCollateral := new(big.Int).Mul(amount, big.NewInt(MinCollateralBps))
	minCollateral = minCollateral.Quo(minCollateral, basisPoints)
	if collateral.Cmp(minCollateral) < 0 {
		return 0, ErrInsufficientCollateral
	}

	table, err := e.state.RateTable()
	if err != nil {
		return 0, err
	}

	loanID, err := e.state.LoanCounter()
	if err != nil {
		return 0, err
	}

	createdAt := e.now()
	loan := &Loan{
		Borrower:     borrower,
		Amount:       new(big.Int).Set(amount),
		Collateral:   new(big.Int).Set(collateral),
		InterestRate: table.Resolve(score),
		Duration:     duration,
		CreatedAt:    createdAt,
		DueDate:      createdAt + duration,
		Active:       true,
		CreditScore:  score,
	}

	if err := e.state.PutLoan(loanID, loan); err != nil {
		return 0, err
	}
	if err := e.state.SetTotalLiquidity(new(big.Int).Sub(total, amount)); err != nil {
		return 0, err
	}
	if err := e.state.SetLoanCounter(loanID + 1); err != nil {
		return 0, err
	}
	return loanID, nil
}

// Loan returns the stored loan record, if any.
func (e *Engine) Loan(id uint64) (*Loan, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	loan, ok, err := e.state.GetLoan(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return loan.Clone(), true, nil
}

// TotalLiquidity returns the current pool aggregate.
func (e *Engine) TotalLiquidity() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	total, err := e.state.TotalLiquidity()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(total), nil
}
