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

import "context"

// ClientState is an opaque snapshot of a light client's tracked
// consensus state; its internal shape is chain-specific and owned by
// the ChainHandle implementation (wire decoding is an external
// collaborator).
type ClientState struct {
	ClientId       ClientId
	TrustingPeriod int64 // nanoseconds
	LatestHeight   Height
	LastUpdateTime int64 // unix nanoseconds of the last header submitted
	Expired        bool
	Frozen         bool
}

// ConnectionEnd is an opaque snapshot of one side of a Connection.
type ConnectionEnd struct {
	ConnectionId ConnectionId
	ClientId     ClientId
	State        HandshakeState
	Counterparty ConnectionId
}

// ChannelEnd is an opaque snapshot of one side of a Channel.
type ChannelEnd struct {
	ChannelId    ChannelId
	PortId       PortId
	State        HandshakeState
	Counterparty ChannelId
	Ordered      bool
	ConnectionId ConnectionId
}

// HandshakeState is shared by Connection and Channel handshake drivers.
type HandshakeState int

const (
	StateUninitialized HandshakeState = iota
	StateInit
	StateTryOpen
	StateOpen
)

// Header is an opaque consensus header plus whatever supporting headers
// (e.g. a validator-set transition chain) the destination light client
// needs to verify it.
type Header struct {
	Height    Height
	RawHeader []byte
}

// Any is a type-tagged, opaque-payload datagram, mirroring the IBC wire
// format's protobuf Any. Encoding the payload itself is a concern of
// whatever ChainHandle implementation produces it; the core only
// threads Any values through without decoding them.
type Any struct {
	TypeUrl string
	Value   []byte
}

// TxResponse is the per-message outcome of a broadcast, classified by
// the submitting ChainHandle.
type TxResponse struct {
	Code   uint32
	TxHash string
	GasUsed int64
}

// TxsQuery selects which transactions/events QueryTxs should return,
// e.g. "all packets destined for channel X not yet received."
type TxsQuery struct {
	ChannelId ChannelId
	PortId    PortId
	MinHeight Height
	MaxHeight Height
}

// ChainHandle is the opaque, thread-safe, cloneable proxy through which
// all chain I/O is mediated. Concrete
// implementations hide whether the underlying runtime is in-process or
// reached over the network; see package chainclient for the networked
// implementation built on JSON-RPC over HTTP plus a websocket event
// stream.
//
// Every method is safe for concurrent use by multiple Workers. Blocking
// calls should observe ctx cancellation so dropping the last live
// reference to a handle can unblock in-flight calls.
type ChainHandle interface {
	Id() ChainId

	QueryLatestHeight(ctx context.Context) (Height, error)
	QueryClientState(ctx context.Context, id ClientId, height Height) (ClientState, error)
	QueryConnection(ctx context.Context, id ConnectionId, height Height) (ConnectionEnd, error)
	QueryChannel(ctx context.Context, port PortId, channel ChannelId, height Height) (ChannelEnd, error)
	QueryTxs(ctx context.Context, req TxsQuery) ([]IbcEvent, error)

	// Subscribe delivers EventBatch values until ctx is cancelled or the
	// underlying transport closes the stream. The returned channel is
	// closed when the subscription ends.
	Subscribe(ctx context.Context) (<-chan EventBatch, error)

	// BuildHeader builds a header bringing a light client from trusted to
	// target, plus any intermediate headers required to cross validator
	// set changes.
	BuildHeader(ctx context.Context, trusted, target Height, client ClientState) (Header, []Header, error)

	// SendMessagesAndWaitCommit broadcasts msgs and blocks until they are
	// committed (or rejected), returning the IbcEvents the destination
	// chain emitted while processing them.
	SendMessagesAndWaitCommit(ctx context.Context, msgs []Any) ([]IbcEvent, error)

	// SendMessagesAndWaitCheckTx broadcasts msgs and returns as soon as
	// they pass CheckTx (mempool admission), one TxResponse per
	// sub-batch actually submitted.
	SendMessagesAndWaitCheckTx(ctx context.Context, msgs []Any) ([]TxResponse, error)

	// SimulateTx estimates the gas a broadcast of msgs would consume,
	// without admitting it to the mempool.
	SimulateTx(ctx context.Context, msgs []Any) (gasUsed int64, err error)
}
