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
	"fmt"
)

// ConnectionStep enumerates the four-way handshake steps: INIT, TRY,
// ACK, CONFIRM, and the terminal OPEN/OPEN state.
type ConnectionStep int

const (
	ConnStepInit ConnectionStep = iota
	ConnStepTry
	ConnStepAck
	ConnStepConfirm
	ConnStepDone
)

// Connection is the stateless orchestration facade over a pair of
// ConnectionEnds. Each step queries current state on both sides and
// submits the next handshake datagram. The datagrams carry only a type
// URL; no proof is built or attached.
type Connection struct {
	DstChain ChainHandle
	SrcChain ChainHandle
	DstClientId ClientId
	SrcClientId ClientId

	DstConnectionId ConnectionId
	SrcConnectionId ConnectionId
}

// NewConnection begins a handshake: no ConnectionEnd exists on either
// side yet.
func NewConnection(dst, src ChainHandle, dstClient, srcClient ClientId) *Connection {
	return &Connection{DstChain: dst, SrcChain: src, DstClientId: dstClient, SrcClientId: srcClient}
}

// FindConnection restores a Connection facade for an already-partially-
// open connection pair, so a respawned worker can resume the handshake
// where it left off.
func FindConnection(dst, src ChainHandle, dstConn, srcConn ConnectionId) *Connection {
	return &Connection{DstChain: dst, SrcChain: src, DstConnectionId: dstConn, SrcConnectionId: srcConn}
}

// Step advances the handshake by exactly one datagram and returns the
// step that was just attempted. Re-submitting a step whose counterparty
// has already advanced is detected by querying state first, making Step
// idempotent.
func (c *Connection) Step(ctx context.Context) (ConnectionStep, error) {
	var srcState, dstState ConnectionEnd
	var err error
	if c.SrcConnectionId != "" {
		srcState, err = c.SrcChain.QueryConnection(ctx, c.SrcConnectionId, ZeroHeight)
		if err != nil {
			return ConnStepInit, err
		}
	}
	if c.DstConnectionId != "" {
		dstState, err = c.DstChain.QueryConnection(ctx, c.DstConnectionId, ZeroHeight)
		if err != nil {
			return ConnStepInit, err
		}
	}

	switch {
	case c.SrcConnectionId == "":
		if err := c.submitInit(ctx); err != nil {
			return ConnStepInit, err
		}
		return ConnStepInit, nil
	case c.DstConnectionId == "":
		if err := c.submitTry(ctx); err != nil {
			return ConnStepTry, err
		}
		return ConnStepTry, nil
	case srcState.State == StateInit && dstState.State == StateTryOpen:
		if err := c.submitAck(ctx); err != nil {
			return ConnStepAck, err
		}
		return ConnStepAck, nil
	case srcState.State == StateOpen && dstState.State == StateTryOpen:
		if err := c.submitConfirm(ctx); err != nil {
			return ConnStepConfirm, err
		}
		return ConnStepConfirm, nil
	case srcState.State == StateOpen && dstState.State == StateOpen:
		return ConnStepDone, nil
	default:
		return ConnStepInit, fmt.Errorf("connection handshake stalled: src=%v dst=%v", srcState.State, dstState.State)
	}
}

// Done reports whether the connection has reached Open on both sides.
func (c *Connection) Done(ctx context.Context) (bool, error) {
	step, err := c.Step(ctx)
	return step == ConnStepDone, err
}

func (c *Connection) submitInit(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.connection.v1.MsgConnectionOpenInit"}
	_, err := c.SrcChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Connection) submitTry(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.connection.v1.MsgConnectionOpenTry"}
	_, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Connection) submitAck(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.connection.v1.MsgConnectionOpenAck"}
	_, err := c.SrcChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Connection) submitConfirm(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.connection.v1.MsgConnectionOpenConfirm"}
	_, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}
