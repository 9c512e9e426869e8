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
	"time"

	"github.com/gorilla/websocket"

	"github.com/r5-labs/relayer/ibc"
	"github.com/r5-labs/relayer/log"
)

const (
	subReadLimit    = 32 * 1024 * 1024
	subPingInterval = 30 * time.Second
	subPongTimeout  = 30 * time.Second
)

// wireEventBatch is the JSON shape a chain daemon's event subscription
// publishes, one message per new block containing every IBC event the
// block produced.
type wireEventBatch struct {
	Height uint64          `json:"height"`
	Events []ibc.IbcEvent  `json:"events"`
}

// newSubscription dials endpoint and decodes every incoming message into
// an ibc.EventBatch, forwarding it on the returned channel until ctx is
// cancelled or the connection drops. The connection is kept alive with a
// read limit, pong-deadline reset, and periodic pings.
func newSubscription(ctx context.Context, endpoint string, chainId ibc.ChainId, logger log.Logger) (<-chan ibc.EventBatch, error) {
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	conn.SetReadLimit(subReadLimit)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(subPongTimeout))
	})
	conn.SetReadDeadline(time.Now().Add(subPongTimeout))

	out := make(chan ibc.EventBatch, 64)
	go pingLoop(ctx, conn)
	go readLoop(ctx, conn, chainId, out, logger)
	return out, nil
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(subPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, chainId ibc.ChainId, out chan<- ibc.EventBatch, logger log.Logger) {
	defer close(out)
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("event subscription read failed", "err", err)
			}
			return
		}
		var wire wireEventBatch
		if err := json.Unmarshal(data, &wire); err != nil {
			logger.Warn("malformed event subscription message", "err", err)
			continue
		}
		batch := ibc.EventBatch{
			ChainId: chainId,
			Height:  ibc.Height{RevisionHeight: wire.Height},
			Events:  wire.Events,
		}
		select {
		case out <- batch:
		case <-ctx.Done():
			return
		}
	}
}
