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

import "fmt"

// ObjectKind tags which of the four Object variants a value carries.
type ObjectKind int

const (
	ObjectClient ObjectKind = iota
	ObjectConnection
	ObjectChannel
	ObjectPacket
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectClient:
		return "client"
	case ObjectConnection:
		return "connection"
	case ObjectChannel:
		return "channel"
	case ObjectPacket:
		return "packet"
	default:
		return "unknown"
	}
}

// Object is the relay engine's unit of work identity. Exactly one of the
// variant-specific field groups is meaningful, selected by Kind.
// Equality by value defines worker uniqueness: at most one live
// WorkerHandle exists per Object at any time.
type Object struct {
	Kind ObjectKind

	// Client
	DstChainId   ChainId
	DstClientId  ClientId
	SrcChainId   ChainId

	// Connection (also uses DstChainId, SrcChainId above)
	SrcConnectionId ConnectionId

	// Channel and Packet (also use DstChainId, SrcChainId above)
	SrcChannelId ChannelId
	SrcPortId    PortId
}

// NewClientObject builds a Client Object: {dst_chain_id, dst_client_id, src_chain_id}.
func NewClientObject(dstChain ChainId, dstClient ClientId, srcChain ChainId) Object {
	return Object{Kind: ObjectClient, DstChainId: dstChain, DstClientId: dstClient, SrcChainId: srcChain}
}

// NewConnectionObject builds a Connection Object: {dst_chain_id, src_chain_id, src_connection_id}.
func NewConnectionObject(dstChain, srcChain ChainId, srcConn ConnectionId) Object {
	return Object{Kind: ObjectConnection, DstChainId: dstChain, SrcChainId: srcChain, SrcConnectionId: srcConn}
}

// NewChannelObject builds a Channel Object: {dst_chain_id, src_chain_id, src_channel_id, src_port_id}.
func NewChannelObject(dstChain, srcChain ChainId, srcChannel ChannelId, srcPort PortId) Object {
	return Object{Kind: ObjectChannel, DstChainId: dstChain, SrcChainId: srcChain, SrcChannelId: srcChannel, SrcPortId: srcPort}
}

// NewPacketObject builds a Packet Object: {src_chain_id, dst_chain_id, src_channel_id, src_port_id}.
func NewPacketObject(srcChain, dstChain ChainId, srcChannel ChannelId, srcPort PortId) Object {
	return Object{Kind: ObjectPacket, DstChainId: dstChain, SrcChainId: srcChain, SrcChannelId: srcChannel, SrcPortId: srcPort}
}

// Equal reports value equality; used by WorkerMap to enforce the
// at-most-one-live-worker-per-Object invariant.
func (o Object) Equal(other Object) bool {
	return o == other
}

// ShortName is a compact human-readable tag used in every log line
// touching this Object, always paired with the underlying cause.
func (o Object) ShortName() string {
	switch o.Kind {
	case ObjectClient:
		return fmt.Sprintf("client/%s->%s:%s", o.SrcChainId, o.DstChainId, o.DstClientId)
	case ObjectConnection:
		return fmt.Sprintf("connection/%s->%s:%s", o.SrcChainId, o.DstChainId, o.SrcConnectionId)
	case ObjectChannel:
		return fmt.Sprintf("channel/%s->%s:%s/%s", o.SrcChainId, o.DstChainId, o.SrcPortId, o.SrcChannelId)
	case ObjectPacket:
		return fmt.Sprintf("packet/%s->%s:%s/%s", o.SrcChainId, o.DstChainId, o.SrcPortId, o.SrcChannelId)
	default:
		return "unknown-object"
	}
}

// ObjectsForEvent derives the Objects an IbcEvent touches. An event
// yields exactly one Object, or none for an unrecognized kind — e.g. a
// MsgUpdateClient event yields only a Client Object, while a SendPacket
// event yields only a Packet Object.
func ObjectsForEvent(selfChain ChainId, ev IbcEvent) []Object {
	switch ev.Kind {
	case EventUpdateClient:
		return []Object{NewClientObject(ev.DstChainId, ev.DstClientId, selfChain)}
	case EventOpenInitConnection, EventOpenTryConnection, EventOpenAckConnection, EventOpenConfirmConnection:
		return []Object{NewConnectionObject(ev.DstChainId, selfChain, ev.SrcConnectionId)}
	case EventOpenInitChannel, EventOpenTryChannel, EventOpenAckChannel, EventOpenConfirmChannel:
		return []Object{NewChannelObject(ev.DstChainId, selfChain, ev.SrcChannelId, ev.SrcPortId)}
	case EventSendPacket, EventWriteAcknowledgement, EventTimeoutPacket:
		return []Object{NewPacketObject(selfChain, ev.DstChainId, ev.SrcChannelId, ev.SrcPortId)}
	default:
		return nil
	}
}
