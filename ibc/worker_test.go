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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnClientWorkerStopsWhenClientExpired(t *testing.T) {
	dst := newFakeChain("chainB")
	src := newFakeChain("chainA")
	dst.ClientStateVal = ClientState{Expired: true}

	client := RestoreForeignClient("07-tendermint-0", dst, src)
	obj := NewClientObject(dst.Id(), "07-tendermint-0", src.Id())
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnClientWorker(obj, client, stoppedCh)

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
	require.Nil(t, msg.Err, "an expired client is a clean stop, never a RunError")
	require.True(t, h.IsStopped())
}

func TestSpawnClientWorkerShutdownStopsBothTasks(t *testing.T) {
	dst := newFakeChain("chainB")
	src := newFakeChain("chainA")
	// A fresh (never-expired, never-due) client state: Refresh returns
	// (nil, nil) forever, so the refresh task just keeps ticking.
	dst.ClientStateVal = ClientState{LastUpdateTime: time.Now().UnixNano(), TrustingPeriod: int64(time.Hour)}

	client := RestoreForeignClient("07-tendermint-0", dst, src)
	obj := NewClientObject(dst.Id(), "07-tendermint-0", src.Id())
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnClientWorker(obj, client, stoppedCh)
	require.False(t, h.IsStopped())

	h.ShutdownAndWait()
	require.True(t, h.IsStopped())

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
}

func TestSpawnConnectionWorkerAbortsOnShutdownCommand(t *testing.T) {
	dst := newFakeChain("chainB")
	src := newFakeChain("chainA")
	conn := NewConnection(dst, src, "", "")
	obj := NewConnectionObject(dst.Id(), src.Id(), "connection-0")
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnConnectionWorker(obj, conn, stoppedCh)
	h.Send(WorkerCmd{Kind: CmdShutdown})

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
	require.True(t, h.IsStopped())
}

func TestSpawnChannelWorkerAbortsOnShutdownCommand(t *testing.T) {
	dst := newFakeChain("chainB")
	src := newFakeChain("chainA")
	ch := NewChannel(dst, src, "connection-0", "transfer", "transfer", true)
	obj := NewChannelObject(dst.Id(), src.Id(), "channel-0", "transfer")
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnChannelWorker(obj, ch, stoppedCh)
	h.Send(WorkerCmd{Kind: CmdShutdown})

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
	require.True(t, h.IsStopped())
}

func TestSpawnPacketWorkerUpdateScheduleReachesLink(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	link := NewLink(src, dst, "client-0", "client-1", "transfer", "channel-0", "channel-1", RelayPathConfig{})
	obj := NewPacketObject(src.Id(), dst.Id(), "channel-0", "transfer")
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnPacketWorker(obj, link, RelayPathConfig{}, stoppedCh)

	h.Send(WorkerCmd{Kind: CmdIbcEvents, Batch: EventBatch{
		ChainId: src.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventSendPacket, SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1}},
	}})

	require.Eventually(t, func() bool {
		_, dstLen, _ := link.AtoB.Lengths()
		return dstLen == 1
	}, time.Second, time.Millisecond)

	h.ShutdownAndWait()
	require.True(t, h.IsStopped())

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
}

func TestSpawnPacketWorkerFatalCommandChannelClose(t *testing.T) {
	src := newFakeChain("chainA")
	dst := newFakeChain("chainB")
	link := NewLink(src, dst, "client-0", "client-1", "transfer", "channel-0", "channel-1", RelayPathConfig{})
	obj := NewPacketObject(src.Id(), dst.Id(), "channel-0", "transfer")
	stoppedCh := make(chan WorkerMsg, 1)

	h := SpawnPacketWorker(obj, link, RelayPathConfig{}, stoppedCh)
	close(h.cmdCh)

	msg := <-stoppedCh
	require.Equal(t, WorkerStopped, msg.Kind)
	require.Error(t, msg.Err, "a closed command channel is Fatal, surfaced as a RunError")
	require.True(t, h.IsStopped())
}
