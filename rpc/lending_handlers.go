package rpc

import "net/http"

type lendRequestLoanParams struct {
	Caller     string `json:"caller"`
	Borrower   string `json:"borrower"`
	Amount     string `json:"amount"`
	Collateral string `json:"collateral"`
	Duration   uint64 `json:"duration"`
}

type lendRequestLoanResult struct {
	LoanID uint64 `json:"loanId"`
}

type lendProvideLiquidityParams struct {
	Caller   string `json:"caller"`
	Provider string `json:"provider"`
	Amount   string `json:"amount"`
}

type lendProvideLiquidityResult struct {
	TotalLiquidity string `json:"totalLiquidity"`
}

type lendGetLoanParams struct {
	LoanID uint64 `json:"loanId"`
}

type lendTotalLiquidityResult struct {
	TotalLiquidity string `json:"totalLiquidity"`
}

type lendSetPausedParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type lendSetPausedResult struct {
	Paused bool `json:"paused"`
}

func (s *Server) handleLendRequestLoan(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params lendRequestLoanParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	borrower, err := parseAddress("borrower", params.Borrower)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	amount, err := parseAmount("amount", params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	collateral, err := parseAmount("collateral", params.Collateral)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	id, moduleErr := s.lending.RequestLoan(caller, borrower, amount, collateral, params.Duration)
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	writeResult(w, req.ID, lendRequestLoanResult{LoanID: id})
}

func (s *Server) handleLendProvideLiquidity(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params lendProvideLiquidityParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	provider, err := parseAddress("provider", params.Provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	amount, err := parseAmount("amount", params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	total, moduleErr := s.lending.ProvideLiquidity(caller, provider, amount)
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	writeResult(w, req.ID, lendProvideLiquidityResult{TotalLiquidity: total.String()})
}

func (s *Server) handleLendGetLoan(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params lendGetLoanParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	loan, moduleErr := s.lending.GetLoan(params.LoanID)
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	// Absence is an explicit null result, not an error.
	writeResult(w, req.ID, newLoanResult(params.LoanID, loan))
}

func (s *Server) handleLendGetTotalLiquidity(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	if len(req.Params) != 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "no parameters expected", nil)
		return
	}
	total, moduleErr := s.lending.GetTotalLiquidity()
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	writeResult(w, req.ID, lendTotalLiquidityResult{TotalLiquidity: total.String()})
}

func (s *Server) handleLendSetPaused(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params lendSetPausedParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	if moduleErr := s.lending.SetPaused(caller, params.Paused); moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	writeResult(w, req.ID, lendSetPausedResult{Paused: params.Paused})
}
