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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClearIntervalElapsedRejectsTautologicalForm is a regression test
// against computing this check as `height % height == 0`, which is true
// for every height and fires on every single block instead of once per
// clear_interval blocks.
func TestClearIntervalElapsedRejectsTautologicalForm(t *testing.T) {
	tautological := func(height, _, _ uint64) bool {
		return height%height == 0
	}
	// The rejected form fires unconditionally for any nonzero height...
	require.True(t, tautological(7, 0, 10))
	// ...while the corrected form only fires once every `interval` blocks.
	require.False(t, clearIntervalElapsed(7, 0, 10))
}

func TestClearIntervalElapsed(t *testing.T) {
	require.False(t, clearIntervalElapsed(5, 0, 0), "interval 0 never elapses")
	require.False(t, clearIntervalElapsed(5, 0, 10), "5 blocks since last, interval 10")
	require.True(t, clearIntervalElapsed(10, 0, 10), "exactly interval blocks since last")
	require.True(t, clearIntervalElapsed(20, 10, 10), "exactly interval blocks since nonzero last")
	require.False(t, clearIntervalElapsed(15, 10, 10), "partial interval since last")
	require.False(t, clearIntervalElapsed(0, 10, 10), "height before last is never elapsed")
	require.False(t, clearIntervalElapsed(10, 10, 10), "zero elapsed blocks never counts as elapsed")
}

func TestUpdateScheduleSuppressesDuplicates(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	p := NewRelayPath(src, dst, "client-0", "transfer", "channel-0", RelayPathConfig{})

	batch := EventBatch{
		ChainId: src.Id(),
		Height:  Height{RevisionHeight: 10},
		Events: []IbcEvent{
			{Kind: EventSendPacket, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1},
		},
	}
	p.UpdateSchedule(batch)
	_, dstLen, _ := p.Lengths()
	require.Equal(t, 1, dstLen)

	// Replaying the same batch is a no-op: the sequence-1 SendPacket is
	// already enqueued.
	p.UpdateSchedule(batch)
	_, dstLen, _ = p.Lengths()
	require.Equal(t, 1, dstLen)
}

func TestExecuteScheduleRetriesOnRetryableError(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	dst.SendCheckTxErr = NewChainError(ChainErrorRetryable, errors.New("mempool full"))

	cfg := RelayPathConfig{Fee: FeeConfig{MaxGas: 100, MaxMsgNum: 10, MaxTxSize: 1000}}
	p := NewRelayPath(src, dst, "client-0", "transfer", "channel-0", cfg)

	p.UpdateSchedule(EventBatch{
		ChainId: src.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventSendPacket, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1}},
	})

	out := p.ExecuteSchedule(context.Background())
	require.Nil(t, out, "a retryable submission failure is swallowed, not surfaced as Fatal")

	// The entry must have been reinserted rather than dropped.
	_, dstLen, _ := p.Lengths()
	require.Equal(t, 1, dstLen)
}

func TestExecuteScheduleDropsInvalidOperationalData(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	dst.SendCheckTxErr = NewChainError(ChainErrorValidation, errors.New("malformed datagram"))

	cfg := RelayPathConfig{Fee: FeeConfig{MaxGas: 100, MaxMsgNum: 10, MaxTxSize: 1000}}
	p := NewRelayPath(src, dst, "client-0", "transfer", "channel-0", cfg)

	p.UpdateSchedule(EventBatch{
		ChainId: src.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventSendPacket, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1}},
	})

	out := p.ExecuteSchedule(context.Background())
	require.Nil(t, out)

	_, dstLen, _ := p.Lengths()
	require.Equal(t, 0, dstLen, "invalid operational data is dropped, not retried")
}

func TestSchedulePacketClearingSkipsSecondCallWithoutForce(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	p := NewRelayPath(src, dst, "client-0", "transfer", "channel-0", RelayPathConfig{ClearInterval: 0})

	h := Height{RevisionHeight: 5}
	p.SchedulePacketClearing(context.Background(), &h, false)
	_, dstLen1, _ := p.Lengths()

	src.QueryTxsEvents = []IbcEvent{{Kind: EventSendPacket, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 99}}
	p.SchedulePacketClearing(context.Background(), &h, false)
	_, dstLen2, _ := p.Lengths()

	require.Equal(t, dstLen1, dstLen2, "clear_interval 0 means clearing never repeats once cleared_once is set")
}
