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

// Package chainclient is the only concrete ibc.ChainHandle implementation
// in this repository: it mediates all I/O to one chain daemon over a
// JSON-RPC-shaped HTTP endpoint for request/response calls and a
// websocket endpoint for the IBC event stream, matching the split the
// teacher's own client/rpc package makes between its HTTP and
// websocket transports.
package chainclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/r5-labs/relayer/ibc"
	"github.com/r5-labs/relayer/log"
)

// Config carries the per-chain connection settings a Client is built
// from: rpc_addr and websocket_addr, plus the outbound request rate
// limit and the HTTP timeout.
type Config struct {
	ChainId       ibc.ChainId
	RpcAddr       string
	WebsocketAddr string
	RequestRateHz float64
	RequestBurst  int
	HttpTimeout   time.Duration
}

// Client is the networked ChainHandle: every method either issues a
// JSON-RPC call over HttpClient or, for Subscribe, opens a websocket
// stream. Outbound calls are rate-limited with golang.org/x/time/rate so
// a single misbehaving worker cannot flood a chain daemon. Client is
// thread-safe and cloneable.
type Client struct {
	cfg Config
	log log.Logger

	http    *http.Client
	limiter *rate.Limiter
}

// New constructs a Client for cfg. It performs no I/O.
func New(cfg Config) *Client {
	burst := cfg.RequestBurst
	if burst <= 0 {
		burst = 1
	}
	rps := cfg.RequestRateHz
	if rps <= 0 {
		rps = 20
	}
	timeout := cfg.HttpTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		log:     log.New("chain", cfg.ChainId.String()),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

var _ ibc.ChainHandle = (*Client)(nil)

func (c *Client) Id() ibc.ChainId { return c.cfg.ChainId }

type rpcRequest struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// call issues one JSON-RPC request against RpcAddr and decodes the
// "result" field into out. Transport failures and 5xx statuses are
// classified Retryable; 4xx statuses and a non-empty RPC "error" field
// are Validation.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{Method: method, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RpcAddr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return newRetryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return newRetryable(fmt.Errorf("chain daemon returned %s", resp.Status))
	}
	if resp.StatusCode >= 400 {
		return newValidation(fmt.Errorf("chain daemon returned %s", resp.Status))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return newRetryable(err)
	}
	if envelope.Error != nil {
		return newValidation(fmt.Errorf("%s", envelope.Error.Message))
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Result, out)
}

func (c *Client) QueryLatestHeight(ctx context.Context) (ibc.Height, error) {
	var h ibc.Height
	err := c.call(ctx, "status", nil, &h)
	return h, err
}

func (c *Client) QueryClientState(ctx context.Context, id ibc.ClientId, height ibc.Height) (ibc.ClientState, error) {
	var st ibc.ClientState
	err := c.call(ctx, "abci_query/clientState", map[string]any{"client_id": id, "height": height}, &st)
	return st, err
}

func (c *Client) QueryConnection(ctx context.Context, id ibc.ConnectionId, height ibc.Height) (ibc.ConnectionEnd, error) {
	var end ibc.ConnectionEnd
	err := c.call(ctx, "abci_query/connection", map[string]any{"connection_id": id, "height": height}, &end)
	return end, err
}

func (c *Client) QueryChannel(ctx context.Context, port ibc.PortId, channel ibc.ChannelId, height ibc.Height) (ibc.ChannelEnd, error) {
	var end ibc.ChannelEnd
	err := c.call(ctx, "abci_query/channel", map[string]any{"port_id": port, "channel_id": channel, "height": height}, &end)
	return end, err
}

func (c *Client) QueryTxs(ctx context.Context, req ibc.TxsQuery) ([]ibc.IbcEvent, error) {
	var events []ibc.IbcEvent
	err := c.call(ctx, "tx_search", req, &events)
	return events, err
}

func (c *Client) Subscribe(ctx context.Context) (<-chan ibc.EventBatch, error) {
	return newSubscription(ctx, c.cfg.WebsocketAddr, c.cfg.ChainId, c.log)
}

func (c *Client) BuildHeader(ctx context.Context, trusted, target ibc.Height, client ibc.ClientState) (ibc.Header, []ibc.Header, error) {
	var resp struct {
		Header     ibc.Header   `json:"header"`
		Supporting []ibc.Header `json:"supporting"`
	}
	err := c.call(ctx, "build_header", map[string]any{"trusted": trusted, "target": target}, &resp)
	return resp.Header, resp.Supporting, err
}

func (c *Client) SendMessagesAndWaitCommit(ctx context.Context, msgs []ibc.Any) ([]ibc.IbcEvent, error) {
	var events []ibc.IbcEvent
	err := c.call(ctx, "broadcast_tx_commit", msgs, &events)
	return events, err
}

func (c *Client) SendMessagesAndWaitCheckTx(ctx context.Context, msgs []ibc.Any) ([]ibc.TxResponse, error) {
	var resps []ibc.TxResponse
	err := c.call(ctx, "broadcast_tx_sync", msgs, &resps)
	return resps, err
}

func (c *Client) SimulateTx(ctx context.Context, msgs []ibc.Any) (int64, error) {
	var resp struct {
		GasUsed int64 `json:"gas_used"`
	}
	err := c.call(ctx, "simulate", msgs, &resp)
	return resp.GasUsed, err
}
