package rpc

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientLimiterPerClient(t *testing.T) {
	limiter := newClientLimiter(1, 2)

	require.True(t, limiter.allow("a"))
	require.True(t, limiter.allow("a"))
	require.False(t, limiter.allow("a"))

	// A different client carries its own budget.
	require.True(t, limiter.allow("b"))
}

func TestClientAddrResolution(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.1.2.3:5544"
	require.Equal(t, "10.1.2.3", clientAddr(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", clientAddr(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", clientAddr(req))
}

func TestMutatingMethodsThrottled(t *testing.T) {
	server, _ := newTestServer(t)
	server.limiter = newClientLimiter(1, 1)

	provider := testAddress(0x01)
	params := lendProvideLiquidityParams{
		Caller:   provider.String(),
		Provider: provider.String(),
		Amount:   big.NewInt(1_000).String(),
	}

	rec, resp := doRPC(t, server, "", "lend_provideLiquidity", params)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	rec, resp = doRPC(t, server, "", "lend_provideLiquidity", params)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeServerError, resp.Error.Code)

	// Reads are not throttled.
	rec, resp = doRPC(t, server, "", "lend_getTotalLiquidity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
}
