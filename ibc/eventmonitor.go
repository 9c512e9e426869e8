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

package ibc

import (
	"context"

	"github.com/r5-labs/relayer/log"
)

// EventMonitor subscribes to one chain's event stream and forwards every
// EventBatch it receives onto a shared channel the Supervisor reads
// from. One EventMonitor per configured chain runs concurrently; their
// fan-in is a plain buffered channel feeding a single select loop.
type EventMonitor struct {
	chain ChainHandle
	out   chan<- EventBatch
	log   log.Logger
}

// NewEventMonitor constructs a monitor for chain, forwarding batches onto
// out.
func NewEventMonitor(chain ChainHandle, out chan<- EventBatch) *EventMonitor {
	return &EventMonitor{
		chain: chain,
		out:   out,
		log:   log.New("chain", chain.Id().String()),
	}
}

// Run subscribes and forwards batches until ctx is cancelled or the
// subscription's channel closes (e.g. the websocket connection to the
// chain daemon dropped). It never returns an error directly — connection
// loss is logged and Run returns. Run does not resubscribe, and neither
// the Supervisor nor cmd/relayer restarts it.
func (m *EventMonitor) Run(ctx context.Context) {
	sub, err := m.chain.Subscribe(ctx)
	if err != nil {
		m.log.Error("failed to subscribe to chain events", "err", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-sub:
			if !ok {
				m.log.Warn("event subscription closed")
				return
			}
			select {
			case m.out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}
