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

// Package ibc implements the concurrent relay engine: the Supervisor,
// the Worker fleet it manages, and the per-Object state machines (Client
// refresh/misbehaviour, Connection handshake, Channel handshake, Packet
// Link with its operational-data schedule). The engine is trust-minimized
// but not trusted: it never holds user funds, and its worst failure mode
// is failing to relay, never an on-chain safety violation.
package ibc

import "fmt"

// ChainId identifies a chain together with the revision number used to
// tag heights observed on it. Equality is by value.
type ChainId struct {
	Name     string
	Revision uint64
}

func (c ChainId) String() string {
	if c.Revision == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s-%d", c.Name, c.Revision)
}

// ClientId, ConnectionId, ChannelId, PortId are opaque identifiers
// assigned by the chains themselves; the relayer never constructs their
// numeric suffixes, only parses and compares them.
type (
	ClientId     string
	ConnectionId string
	ChannelId    string
	PortId       string
)

// Sequence is a packet's monotonically increasing per-channel index.
type Sequence uint64
