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

// ChannelStep enumerates the four-way channel handshake steps, analogous
// to Connection's INIT/TRY/ACK/CONFIRM/OPEN sequence.
type ChannelStep int

const (
	ChanStepInit ChannelStep = iota
	ChanStepTry
	ChanStepAck
	ChanStepConfirm
	ChanStepDone
)

// Channel is the stateless orchestration facade over a pair of
// ChannelEnds.
type Channel struct {
	DstChain ChainHandle
	SrcChain ChainHandle

	DstPortId, SrcPortId       PortId
	DstChannelId, SrcChannelId ChannelId
	ConnectionId               ConnectionId
	Ordered                    bool
}

// NewChannel begins a handshake for a new channel over an already-open
// connection.
func NewChannel(dst, src ChainHandle, conn ConnectionId, dstPort, srcPort PortId, ordered bool) *Channel {
	return &Channel{DstChain: dst, SrcChain: src, ConnectionId: conn, DstPortId: dstPort, SrcPortId: srcPort, Ordered: ordered}
}

// FindChannel restores a Channel facade for a partially open channel.
func FindChannel(dst, src ChainHandle, dstChan, srcChan ChannelId, dstPort, srcPort PortId) *Channel {
	return &Channel{DstChain: dst, SrcChain: src, DstChannelId: dstChan, SrcChannelId: srcChan, DstPortId: dstPort, SrcPortId: srcPort}
}

// Step advances the channel handshake by one datagram, querying current
// state on both sides first so re-submission after the counterparty has
// already advanced is a no-op (idempotent).
func (c *Channel) Step(ctx context.Context) (ChannelStep, error) {
	var srcState, dstState ChannelEnd
	var err error
	if c.SrcChannelId != "" {
		srcState, err = c.SrcChain.QueryChannel(ctx, c.SrcPortId, c.SrcChannelId, ZeroHeight)
		if err != nil {
			return ChanStepInit, err
		}
	}
	if c.DstChannelId != "" {
		dstState, err = c.DstChain.QueryChannel(ctx, c.DstPortId, c.DstChannelId, ZeroHeight)
		if err != nil {
			return ChanStepInit, err
		}
	}

	switch {
	case c.SrcChannelId == "":
		if err := c.submitInit(ctx); err != nil {
			return ChanStepInit, err
		}
		return ChanStepInit, nil
	case c.DstChannelId == "":
		if err := c.submitTry(ctx); err != nil {
			return ChanStepTry, err
		}
		return ChanStepTry, nil
	case srcState.State == StateInit && dstState.State == StateTryOpen:
		if err := c.submitAck(ctx); err != nil {
			return ChanStepAck, err
		}
		return ChanStepAck, nil
	case srcState.State == StateOpen && dstState.State == StateTryOpen:
		if err := c.submitConfirm(ctx); err != nil {
			return ChanStepConfirm, err
		}
		return ChanStepConfirm, nil
	case srcState.State == StateOpen && dstState.State == StateOpen:
		return ChanStepDone, nil
	default:
		return ChanStepInit, fmt.Errorf("channel handshake stalled: src=%v dst=%v", srcState.State, dstState.State)
	}
}

// Done reports whether the channel has reached Open on both sides.
func (c *Channel) Done(ctx context.Context) (bool, error) {
	step, err := c.Step(ctx)
	return step == ChanStepDone, err
}

func (c *Channel) submitInit(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.channel.v1.MsgChannelOpenInit"}
	_, err := c.SrcChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Channel) submitTry(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.channel.v1.MsgChannelOpenTry"}
	_, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Channel) submitAck(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.channel.v1.MsgChannelOpenAck"}
	_, err := c.SrcChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}

func (c *Channel) submitConfirm(ctx context.Context) error {
	msg := Any{TypeUrl: "/ibc.core.channel.v1.MsgChannelOpenConfirm"}
	_, err := c.DstChain.SendMessagesAndWaitCommit(ctx, []Any{msg})
	return err
}
