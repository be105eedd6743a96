package rpc

import "net/http"

type creditUpdateProfileParams struct {
	Caller           string   `json:"caller"`
	User             string   `json:"user"`
	TotalIncome      string   `json:"totalIncome"`
	AvgMonthlyIncome string   `json:"avgMonthlyIncome"`
	Platforms        []string `json:"platforms"`
}

type creditGetProfileParams struct {
	Address string `json:"address"`
}

func (s *Server) handleCreditUpdateProfile(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creditUpdateProfileParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	user, err := parseAddress("user", params.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	totalIncome, err := parseAmount("totalIncome", params.TotalIncome)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	avgMonthly, err := parseAmount("avgMonthlyIncome", params.AvgMonthlyIncome)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	profile, moduleErr := s.credit.UpdateProfile(caller, user, totalIncome, avgMonthly, params.Platforms)
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	writeResult(w, req.ID, newCreditProfileResult(profile))
}

func (s *Server) handleCreditGetProfile(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creditGetProfileParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}
	addr, err := parseAddress("address", params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter", err.Error())
		return
	}

	profile, moduleErr := s.credit.GetProfile(addr)
	if moduleErr != nil {
		writeModuleError(w, req.ID, moduleErr)
		return
	}
	// Absence is an explicit null result, not an error.
	writeResult(w, req.ID, newCreditProfileResult(profile))
}
