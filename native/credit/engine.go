package credit

import (
	"errors"
	"math/big"

	"giglend/crypto"
	nativecommon "giglend/native/common"
)

var (
	errNilState = errors.New("credit engine: state not configured")
	errNilClock = errors.New("credit engine: ledger clock not configured")
)

type engineState interface {
	GetProfile(addr crypto.Address) (*Profile, bool, error)
	PutProfile(profile *Profile) error
}

// Engine manages credit profiles. Profile writes are full replacements: the
// stored payment history and verification level are reset to their initial
// values rather than merged, and the score is recomputed on every call.
type Engine struct {
	state engineState
	auth  nativecommon.Authorizer
	now   func() uint64
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

// SetNowFunc wires the ledger timestamp source used to stamp profile writes.
func (e *Engine) SetNowFunc(now func() uint64) {
	if e == nil {
		return
	}
	e.now = now
}

// UpdateProfile creates or replaces the caller's credit profile and returns
// the stored record. The caller must be authenticated as the profile owner.
func (e *Engine) UpdateProfile(caller, user crypto.Address, totalIncome, avgMonthlyIncome *big.Int, platforms []string) (*Profile, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.now == nil {
		return nil, errNilClock
	}
	if e.auth != nil {
		if err := e.auth.RequireAuth(caller, user); err != nil {
			return nil, err
		}
	}

	if totalIncome == nil {
		totalIncome = big.NewInt(0)
	}
	if avgMonthlyIncome == nil {
		avgMonthlyIncome = big.NewInt(0)
	}

	profile := &Profile{
		User:              user,
		TotalIncome:       new(big.Int).Set(totalIncome),
		AvgMonthlyIncome:  new(big.Int).Set(avgMonthlyIncome),
		PaymentHistory:    InitialPaymentHistory,
		GigPlatforms:      append([]string(nil), platforms...),
		VerificationLevel: InitialVerificationLevel,
		CreditScore:       Score(totalIncome, avgMonthlyIncome, len(platforms)),
		LastUpdated:       e.now(),
	}

	if err := e.state.PutProfile(profile); err != nil {
		return nil, err
	}
	return profile.Clone(), nil
}

// Profile returns the stored profile for the address, if any.
func (e *Engine) Profile(addr crypto.Address) (*Profile, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	profile, ok, err := e.state.GetProfile(addr)
	if err != nil || !ok {
		return nil, false, err
	}
	return profile.Clone(), true, nil
}
