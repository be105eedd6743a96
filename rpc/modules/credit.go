package modules

import (
	"errors"
	"math/big"
	"net/http"

	"giglend/core"
	"giglend/crypto"
	"giglend/native/common"
	"giglend/native/credit"
)

type CreditModule struct {
	node *core.Node
}

func NewCreditModule(node *core.Node) *CreditModule {
	return &CreditModule{node: node}
}

func (m *CreditModule) moduleUnavailable() *ModuleError {
	return &ModuleError{HTTPStatus: http.StatusInternalServerError, Code: codeServerError, Message: "credit module not available"}
}

// UpdateProfile replaces the user's credit profile and returns the stored
// record.
func (m *CreditModule) UpdateProfile(caller, user crypto.Address, totalIncome, avgMonthlyIncome *big.Int, platforms []string) (*credit.Profile, *ModuleError) {
	if m == nil || m.node == nil {
		return nil, m.moduleUnavailable()
	}
	if err := m.node.UpdateCreditProfile(caller, user, totalIncome, avgMonthlyIncome, platforms); err != nil {
		return nil, wrapCoreError(err)
	}
	profile, ok, err := m.node.GetCreditProfile(user)
	if err != nil {
		return nil, wrapCoreError(err)
	}
	if !ok {
		return nil, &ModuleError{HTTPStatus: http.StatusInternalServerError, Code: codeServerError, Message: "profile missing after write"}
	}
	return profile, nil
}

// GetProfile returns the stored profile or nil when absent.
func (m *CreditModule) GetProfile(addr crypto.Address) (*credit.Profile, *ModuleError) {
	if m == nil || m.node == nil {
		return nil, m.moduleUnavailable()
	}
	profile, ok, err := m.node.GetCreditProfile(addr)
	if err != nil {
		return nil, wrapCoreError(err)
	}
	if !ok {
		return nil, nil
	}
	return profile, nil
}

// wrapCoreError maps core sentinel failures to distinct JSON-RPC conditions.
// Every abort surfaces its human-readable message; unknown failures fall
// through as server errors.
func wrapCoreError(err error) *ModuleError {
	switch {
	case errors.Is(err, common.ErrNotAuthorized):
		return &ModuleError{HTTPStatus: http.StatusForbidden, Code: codeUnauthorized, Message: err.Error()}
	case errors.Is(err, common.ErrProtocolPaused):
		return &ModuleError{HTTPStatus: http.StatusConflict, Code: codeServerError, Message: err.Error()}
	default:
		return &ModuleError{HTTPStatus: http.StatusInternalServerError, Code: codeServerError, Message: err.Error()}
	}
}
