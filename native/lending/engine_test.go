package lending

import (
	"errors"
	"math/big"
	"testing"

	"giglend/crypto"
	nativecommon "giglend/native/common"
)

func makeAddress(fill byte) crypto.Address {
	b := make([]byte, 20)
	for i := range b {
		b[i] = fill
	}
	return crypto.NewAddress(crypto.GigPrefix, b)
}

type stubPauseView struct {
	paused bool
}

func (s stubPauseView) IsPaused() bool { return s.paused }

type mockEngineState struct {
	loans    map[uint64]*Loan
	counter  uint64
	deposits map[string][]*LiquidityDeposit
	total    *big.Int
	table    RateTable
	scores   map[string]uint32
}

func newMockEngineState() *mockEngineState {
	return &mockEngineState{
		loans:    make(map[uint64]*Loan),
		deposits: make(map[string][]*LiquidityDeposit),
		total:    big.NewInt(0),
		table:    DefaultRateTable(),
		scores:   make(map[string]uint32),
	}
}

func (s *mockEngineState) GetLoan(id uint64) (*Loan, bool, error) {
	loan, ok := s.loans[id]
	return loan, ok, nil
}

func (s *mockEngineState) PutLoan(id uint64, loan *Loan) error {
	s.loans[id] = loan
	return nil
}

func (s *mockEngineState) LoanCounter() (uint64, error) { return s.counter, nil }

func (s *mockEngineState) SetLoanCounter(counter uint64) error {
	s.counter = counter
	return nil
}

func (s *mockEngineState) Deposits(provider crypto.Address) ([]*LiquidityDeposit, error) {
	return s.deposits[provider.String()], nil
}

func (s *mockEngineState) PutDeposits(provider crypto.Address, deposits []*LiquidityDeposit) error {
	s.deposits[provider.String()] = deposits
	return nil
}

func (s *mockEngineState) TotalLiquidity() (*big.Int, error) {
	return new(big.Int).Set(s.total), nil
}

func (s *mockEngineState) SetTotalLiquidity(total *big.Int) error {
	s.total = new(big.Int).Set(total)
	return nil
}

func (s *mockEngineState) RateTable() (RateTable, error) { return s.table, nil }

func (s *mockEngineState) CreditScore(addr crypto.Address) (uint32, bool, error) {
	score, ok := s.scores[addr.String()]
	return score, ok, nil
}

func newTestEngine(state *mockEngineState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() uint64 { return 1_700_000_000 })
	return engine
}

func TestProvideLiquidityAppendsDeposit(t *testing.T) {
	provider := makeAddress(0xAA)
	state := newMockEngineState()
	engine := newTestEngine(state)

	deposit, err := engine.ProvideLiquidity(provider, provider, big.NewInt(10_000))
	if err != nil {
		t.Fatalf("ProvideLiquidity: %v", err)
	}
	if deposit.APY != ProviderAPYBps {
		t.Fatalf("expected APY %d, got %d", ProviderAPYBps, deposit.APY)
	}
	if !deposit.Active || deposit.AccruedInterest.Sign() != 0 {
		t.Fatalf("unexpected deposit flags: %+v", deposit)
	}
	if state.total.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("expected total 10000, got %s", state.total)
	}
	if got := len(state.deposits[provider.String()]); got != 1 {
		t.Fatalf("expected 1 deposit record, got %d", got)
	}

	if _, err := engine.ProvideLiquidity(provider, provider, big.NewInt(500)); err != nil {
		t.Fatalf("second ProvideLiquidity: %v", err)
	}
	if got := len(state.deposits[provider.String()]); got != 2 {
		t.Fatalf("expected 2 deposit records, got %d", got)
	}
	if state.total.Cmp(big.NewInt(10_500)) != 0 {
		t.Fatalf("expected total 10500, got %s", state.total)
	}
}

func TestProvideLiquidityGuards(t *testing.T) {
	provider := makeAddress(0xAA)
	other := makeAddress(0xBB)
	state := newMockEngineState()
	engine := newTestEngine(state)

	if _, err := engine.ProvideLiquidity(other, provider, big.NewInt(100)); !errors.Is(err, nativecommon.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	engine.SetPauses(stubPauseView{paused: true})
	if _, err := engine.ProvideLiquidity(provider, provider, big.NewInt(100)); !errors.Is(err, nativecommon.ErrProtocolPaused) {
		t.Fatalf("expected ErrProtocolPaused, got %v", err)
	}
	if state.total.Sign() != 0 || len(state.deposits) != 0 {
		t.Fatalf("guard failure mutated state: total=%s deposits=%d", state.total, len(state.deposits))
	}
}

func TestRequestLoanPreconditionOrder(t *testing.T) {
	borrower := makeAddress(0xCC)

	t.Run("paused", func(t *testing.T) {
		state := newMockEngineState()
		engine := newTestEngine(state)
		engine.SetPauses(stubPauseView{paused: true})
		if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1), big.NewInt(2), 60); !errors.Is(err, nativecommon.ErrProtocolPaused) {
			t.Fatalf("expected ErrProtocolPaused, got %v", err)
		}
	})

	t.Run("insufficient liquidity", func(t *testing.T) {
		state := newMockEngineState()
		state.total = big.NewInt(999)
		// Pool check happens before the profile lookup, so no score is needed.
		engine := newTestEngine(state)
		if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_500), 60); !errors.Is(err, ErrInsufficientLiquidity) {
			t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		state := newMockEngineState()
		state.total = big.NewInt(10_000)
		engine := newTestEngine(state)
		if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_500), 60); !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
		if state.counter != 0 || state.total.Cmp(big.NewInt(10_000)) != 0 {
			t.Fatalf("failed origination mutated state")
		}
	})

	t.Run("insufficient collateral", func(t *testing.T) {
		state := newMockEngineState()
		state.total = big.NewInt(10_000)
		state.scores[borrower.String()] = 650
		engine := newTestEngine(state)
		if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_490), 60); !errors.Is(err, ErrInsufficientCollateral) {
			t.Fatalf("expected ErrInsufficientCollateral, got %v", err)
		}
		if state.counter != 0 || len(state.loans) != 0 || state.total.Cmp(big.NewInt(10_000)) != 0 {
			t.Fatalf("failed origination mutated state")
		}
	})
}

func TestRequestLoanCollateralBoundary(t *testing.T) {
	borrower := makeAddress(0xCC)
	state := newMockEngineState()
	state.total = big.NewInt(10_000)
	state.scores[borrower.String()] = 650
	engine := newTestEngine(state)

	// Exactly 150% passes.
	if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_500), 60); err != nil {
		t.Fatalf("expected 150%% collateral to pass, got %v", err)
	}
	// 149% fails.
	if _, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_499), 60); !errors.Is(err, ErrInsufficientCollateral) {
		t.Fatalf("expected ErrInsufficientCollateral at 149%%, got %v", err)
	}
}

func TestRequestLoanSuccess(t *testing.T) {
	borrower := makeAddress(0xCC)
	state := newMockEngineState()
	state.total = big.NewInt(10_000)
	state.scores[borrower.String()] = 650
	engine := newTestEngine(state)

	id, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_500), 86_400)
	if err != nil {
		t.Fatalf("RequestLoan: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected loan id 0, got %d", id)
	}
	if state.counter != 1 {
		t.Fatalf("expected counter 1, got %d", state.counter)
	}
	if state.total.Cmp(big.NewInt(9_000)) != 0 {
		t.Fatalf("expected total 9000 after debit, got %s", state.total)
	}

	loan, ok, err := engine.Loan(id)
	if err != nil || !ok {
		t.Fatalf("Loan(%d): ok=%v err=%v", id, ok, err)
	}
	if !loan.Active {
		t.Fatalf("expected loan active")
	}
	if loan.InterestRate != 1200 {
		t.Fatalf("expected 1200 bps for score 650, got %d", loan.InterestRate)
	}
	if loan.CreditScore != 650 {
		t.Fatalf("expected score snapshot 650, got %d", loan.CreditScore)
	}
	if loan.DueDate != loan.CreatedAt+86_400 {
		t.Fatalf("expected due date createdAt+86400, got created=%d due=%d", loan.CreatedAt, loan.DueDate)
	}

	// Counter keeps advancing.
	id2, err := engine.RequestLoan(borrower, borrower, big.NewInt(1_000), big.NewInt(1_500), 60)
	if err != nil {
		t.Fatalf("second RequestLoan: %v", err)
	}
	if id2 != 1 {
		t.Fatalf("expected loan id 1, got %d", id2)
	}
}
