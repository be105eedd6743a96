package core

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"giglend/core/state"
	"giglend/core/types"
	"giglend/crypto"
	"giglend/native/common"
	"giglend/native/credit"
	"giglend/native/lending"
	"giglend/observability"
	"giglend/storage"
)

var ErrAlreadyInitialized = errors.New("node: ledger already initialised")

// Node is the authoritative entry point for protocol calls. The host ledger
// serialises calls and commits each one atomically; the node models that by
// running every public operation to completion under a single mutex, with all
// precondition reads and the resulting writes inside the same critical
// section.
type Node struct {
	mu sync.Mutex

	db      storage.Database
	state   *state.Manager
	credit  *credit.Engine
	lending *lending.Engine

	events []*types.Event
	now    func() uint64
}

// NewNode wires the engines against the state manager backed by db.
func NewNode(db storage.Database) *Node {
	n := &Node{
		db:    db,
		state: state.NewManager(db),
		now:   func() uint64 { return uint64(time.Now().Unix()) },
	}

	creditEngine := credit.NewEngine()
	creditEngine.SetState(creditState{m: n.state})
	creditEngine.SetNowFunc(n.ledgerNow)
	n.credit = creditEngine

	lendingEngine := lending.NewEngine()
	lendingEngine.SetState(lendingState{m: n.state})
	lendingEngine.SetPauses(pauseView{m: n.state})
	lendingEngine.SetNowFunc(n.ledgerNow)
	n.lending = lendingEngine

	return n
}

// SetNowFunc overrides the ledger timestamp source. Intended for tests.
func (n *Node) SetNowFunc(now func() uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if now != nil {
		n.now = now
	}
}

func (n *Node) ledgerNow() uint64 { return n.now() }

// Initialized reports whether an admin identity has been stored.
func (n *Node) Initialized() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok, err := n.state.Admin()
	return ok, err
}

// Initialize performs the one-time ledger setup: admin identity, zeroed loan
// counter and liquidity aggregate, cleared pause flag and the default
// interest-rate tier table. A second call fails without touching state.
func (n *Node) Initialize(admin crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok, err := n.state.Admin(); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInitialized
	}

	if err := n.state.SetAdmin(admin); err != nil {
		return err
	}
	if err := n.state.LendingSetLoanCounter(0); err != nil {
		return err
	}
	if err := n.state.SetTotalLiquidity(big.NewInt(0)); err != nil {
		return err
	}
	if err := n.state.SetPaused(false); err != nil {
		return err
	}
	return n.state.LendingSetRateTable(lending.DefaultRateTable())
}

// UpdateCreditProfile creates or replaces the user's credit profile.
func (n *Node) UpdateCreditProfile(caller, user crypto.Address, totalIncome, avgMonthlyIncome *big.Int, platforms []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	profile, err := n.credit.UpdateProfile(caller, user, totalIncome, avgMonthlyIncome, platforms)
	if err != nil {
		return err
	}
	n.events = append(n.events, credit.NewProfileUpdatedEvent(profile))
	observability.ProfileUpdates.Inc()
	return nil
}

// RequestLoan originates a loan against the shared pool and returns its id.
func (n *Node) RequestLoan(caller, borrower crypto.Address, amount, collateral *big.Int, duration uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id, err := n.lending.RequestLoan(caller, borrower, amount, collateral, duration)
	if err != nil {
		return 0, err
	}
	loan, ok, err := n.lending.Loan(id)
	if err == nil && ok {
		n.events = append(n.events, lending.NewLoanOriginatedEvent(id, loan))
	}
	observability.LoansOriginated.Inc()
	n.observeLiquidity()
	return id, nil
}

// ProvideLiquidity appends a deposit for the provider and grows the pool.
func (n *Node) ProvideLiquidity(caller, provider crypto.Address, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	deposit, err := n.lending.ProvideLiquidity(caller, provider, amount)
	if err != nil {
		return err
	}
	n.events = append(n.events, lending.NewLiquidityProvidedEvent(deposit))
	observability.LiquidityDeposits.Inc()
	n.observeLiquidity()
	return nil
}

// SetPaused flips the protocol pause switch. Only the stored admin may call
// it.
func (n *Node) SetPaused(caller crypto.Address, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	admin, ok, err := n.state.Admin()
	if err != nil {
		return err
	}
	if !ok || !caller.Equal(admin) {
		return common.ErrNotAuthorized
	}
	return n.state.SetPaused(paused)
}

// GetLoan returns the loan stored under the id, if any.
func (n *Node) GetLoan(id uint64) (*lending.Loan, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lending.Loan(id)
}

// GetCreditProfile returns the stored profile for the address, if any.
func (n *Node) GetCreditProfile(addr crypto.Address) (*credit.Profile, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.credit.Profile(addr)
}

// GetTotalLiquidity returns the current pool aggregate.
func (n *Node) GetTotalLiquidity() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lending.TotalLiquidity()
}

// Admin returns the stored admin identity, if any.
func (n *Node) Admin() (crypto.Address, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Admin()
}

// Paused reports the protocol pause switch.
func (n *Node) Paused() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Paused()
}

// Events drains and returns the events collected since the previous call.
func (n *Node) Events() []*types.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	drained := n.events
	n.events = nil
	return drained
}

func (n *Node) observeLiquidity() {
	total, err := n.state.TotalLiquidity()
	if err != nil {
		return
	}
	f, _ := new(big.Float).SetInt(total).Float64()
	observability.TotalLiquidity.Set(f)
}

// --- engine/state adapters ---

type creditState struct {
	m *state.Manager
}

func (s creditState) GetProfile(addr crypto.Address) (*credit.Profile, bool, error) {
	return s.m.CreditGetProfile(addr)
}

func (s creditState) PutProfile(profile *credit.Profile) error {
	return s.m.CreditPutProfile(profile)
}

type lendingState struct {
	m *state.Manager
}

func (s lendingState) GetLoan(id uint64) (*lending.Loan, bool, error) {
	return s.m.LendingGetLoan(id)
}

func (s lendingState) PutLoan(id uint64, loan *lending.Loan) error {
	return s.m.LendingPutLoan(id, loan)
}

func (s lendingState) LoanCounter() (uint64, error) {
	return s.m.LendingLoanCounter()
}

func (s lendingState) SetLoanCounter(counter uint64) error {
	return s.m.LendingSetLoanCounter(counter)
}

func (s lendingState) Deposits(provider crypto.Address) ([]*lending.LiquidityDeposit, error) {
	return s.m.LendingDeposits(provider)
}

func (s lendingState) PutDeposits(provider crypto.Address, deposits []*lending.LiquidityDeposit) error {
	return s.m.LendingPutDeposits(provider, deposits)
}

func (s lendingState) TotalLiquidity() (*big.Int, error) {
	return s.m.TotalLiquidity()
}

func (s lendingState) SetTotalLiquidity(total *big.Int) error {
	return s.m.SetTotalLiquidity(total)
}

func (s lendingState) RateTable() (lending.RateTable, error) {
	return s.m.LendingRateTable()
}

func (s lendingState) CreditScore(addr crypto.Address) (uint32, bool, error) {
	profile, ok, err := s.m.CreditGetProfile(addr)
	if err != nil || !ok {
		return 0, false, err
	}
	return profile.CreditScore, true, nil
}

type pauseView struct {
	m *state.Manager
}

func (p pauseView) IsPaused() bool {
	paused, err := p.m.Paused()
	if err != nil {
		return false
	}
	return paused
}
