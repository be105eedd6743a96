package modules

import (
	"errors"
	"math/big"
	"net/http"

	"giglend/core"
	"giglend/crypto"
	"giglend/native/lending"
)

type LendingModule struct {
	node *core.Node
}

func NewLendingModule(node *core.Node) *LendingModule {
	return &LendingModule{node: node}
}

func (m *LendingModule) moduleUnavailable() *ModuleError {
	return &ModuleError{HTTPStatus: http.StatusInternalServerError, Code: codeServerError, Message: "lending module not available"}
}

// RequestLoan originates a loan and returns the assigned id.
func (m *LendingModule) RequestLoan(caller, borrower crypto.Address, amount, collateral *big.Int, duration uint64) (uint64, *ModuleError) {
	if m == nil || m.node == nil {
		return 0, m.moduleUnavailable()
	}
	id, err := m.node.RequestLoan(caller, borrower, amount, collateral, duration)
	if err != nil {
		return 0, wrapLendingError(err)
	}
	return id, nil
}

// ProvideLiquidity appends a pool deposit and returns the new aggregate.
func (m *LendingModule) ProvideLiquidity(caller, provider crypto.Address, amount *big.Int) (*big.Int, *ModuleError) {
	if m == nil || m.node == nil {
		return nil, m.moduleUnavailable()
	}
	if err := m.node.ProvideLiquidity(caller, provider, amount); err != nil {
		return nil, wrapLendingError(err)
	}
	total, err := m.node.GetTotalLiquidity()
	if err != nil {
		return nil, wrapLendingError(err)
	}
	return total, nil
}

// GetLoan returns the stored loan or nil when absent.
func (m *LendingModule) GetLoan(id uint64) (*lending.Loan, *ModuleError) {
	if m == nil || m.node == nil {
		return nil, m.moduleUnavailable()
	}
	loan, ok, err := m.node.GetLoan(id)
	if err != nil {
		return nil, wrapLendingError(err)
	}
	if !ok {
		return nil, nil
	}
	return loan, nil
}

// GetTotalLiquidity returns the pool aggregate.
func (m *LendingModule) GetTotalLiquidity() (*big.Int, *ModuleError) {
	if m == nil || m.node == nil {
		return nil, m.moduleUnavailable()
	}
	total, err := m.node.GetTotalLiquidity()
	if err != nil {
		return nil, wrapLendingError(err)
	}
	return total, nil
}

// SetPaused flips the protocol pause switch; admin only.
func (m *LendingModule) SetPaused(caller crypto.Address, paused bool) *ModuleError {
	if m == nil || m.node == nil {
		return m.moduleUnavailable()
	}
	if err := m.node.SetPaused(caller, paused); err != nil {
		return wrapLendingError(err)
	}
	return nil
}

func wrapLendingError(err error) *ModuleError {
	switch {
	case errors.Is(err, lending.ErrInsufficientLiquidity),
		errors.Is(err, lending.ErrInsufficientCollateral):
		return &ModuleError{HTTPStatus: http.StatusBadRequest, Code: codeInvalidParams, Message: err.Error()}
	case errors.Is(err, lending.ErrProfileNotFound):
		return &ModuleError{HTTPStatus: http.StatusNotFound, Code: codeInvalidParams, Message: err.Error()}
	default:
		return wrapCoreError(err)
	}
}
