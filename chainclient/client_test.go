// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package chainclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r5-labs/relayer/ibc"
)

func newTestServer(t *testing.T, result any, rpcErr string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{}
		if rpcErr != "" {
			resp["error"] = map[string]any{"message": rpcErr}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestQueryLatestHeightDecodesResult(t *testing.T) {
	srv := newTestServer(t, ibc.Height{RevisionNumber: 1, RevisionHeight: 42}, "")
	defer srv.Close()

	c := New(Config{ChainId: ibc.ChainId{Name: "chain-a", Revision: 1}, RpcAddr: srv.URL, RequestRateHz: 1000, RequestBurst: 10})
	h, err := c.QueryLatestHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), h.RevisionHeight)
}

func TestCallClassifiesRpcErrorAsValidation(t *testing.T) {
	srv := newTestServer(t, nil, "sequence mismatch")
	defer srv.Close()

	c := New(Config{ChainId: ibc.ChainId{Name: "chain-a"}, RpcAddr: srv.URL, RequestRateHz: 1000, RequestBurst: 10})
	_, err := c.QueryLatestHeight(context.Background())
	require.Error(t, err)

	var ce *ibc.ChainError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ibc.ChainErrorValidation, ce.Kind)
}

func TestCallClassifiesServerErrorAsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{ChainId: ibc.ChainId{Name: "chain-a"}, RpcAddr: srv.URL, RequestRateHz: 1000, RequestBurst: 10})
	_, err := c.QueryLatestHeight(context.Background())
	require.Error(t, err)
	require.True(t, ibc.IsRetryable(err))
}
