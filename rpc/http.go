package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giglend/core"
	"giglend/observability"
	"giglend/rpc/modules"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

// AuthTokenEnv names the environment variable carrying the bearer token
// required for mutating methods. An empty token disables the gate (dev mode).
const AuthTokenEnv = "GIGLEND_RPC_TOKEN"

type Server struct {
	node      *core.Node
	authToken string
	limiter   *clientLimiter

	credit  *modules.CreditModule
	lending *modules.LendingModule
}

func NewServer(node *core.Node) *Server {
	return &Server{
		node:      node,
		authToken: strings.TrimSpace(os.Getenv(AuthTokenEnv)),
		limiter:   newClientLimiter(0, 0),
		credit:    modules.NewCreditModule(node),
		lending:   modules.NewLendingModule(node),
	}
}

// Start serves JSON-RPC on addr; /metrics carries the Prometheus registry.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("starting JSON-RPC server", slog.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeModuleError(w http.ResponseWriter, id interface{}, err *modules.ModuleError) {
	writeError(w, err.HTTPStatus, id, err.Code, err.Message, err.Data)
}

// requireAuth gates mutating methods behind the configured bearer token.
func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, req *RPCRequest)

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "unable to read request body", err.Error())
		return
	}

	req := new(RPCRequest)
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON-RPC request", err.Error())
		return
	}
	if req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported JSON-RPC version", nil)
		return
	}

	handler, mutating, ok := s.route(req.Method)
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
		return
	}
	if mutating {
		if !s.limiter.allow(clientAddr(r)) {
			observability.RPCRequests.WithLabelValues(req.Method, "throttled").Inc()
			writeError(w, http.StatusTooManyRequests, req.ID, codeServerError, "rate limit exceeded", nil)
			return
		}
		if authErr := s.requireAuth(r); authErr != nil {
			observability.RPCRequests.WithLabelValues(req.Method, "unauthorized").Inc()
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	handler(rec, r, req)

	outcome := "ok"
	if rec.status >= http.StatusBadRequest {
		outcome = "error"
	}
	observability.RPCRequests.WithLabelValues(req.Method, outcome).Inc()
}

func (s *Server) route(method string) (handlerFunc, bool, bool) {
	switch method {
	case "credit_updateProfile":
		return s.handleCreditUpdateProfile, true, true
	case "credit_getProfile":
		return s.handleCreditGetProfile, false, true
	case "lend_requestLoan":
		return s.handleLendRequestLoan, true, true
	case "lend_provideLiquidity":
		return s.handleLendProvideLiquidity, true, true
	case "lend_getLoan":
		return s.handleLendGetLoan, false, true
	case "lend_getTotalLiquidity":
		return s.handleLendGetTotalLiquidity, false, true
	case "lend_setPaused":
		return s.handleLendSetPaused, true, true
	}
	return nil, false, false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
