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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func allEnabledMode() ModeConfig {
	return ModeConfig{
		ClientsEnabled:     true,
		ConnectionsEnabled: true,
		ChannelsEnabled:    true,
		PacketsEnabled:     true,
	}
}

// TestSupervisorSpawnsOneWorkerPerObjectKind feeds a batch carrying one
// event of each kind and checks the Supervisor spawns exactly one worker
// per Object it yields.
func TestSupervisorSpawnsOneWorkerPerObjectKind(t *testing.T) {
	chainA := newFakeChain("chainA")
	chainB := newFakeChain("chainB")
	chains := map[ChainId]ChainHandle{chainA.Id(): chainA, chainB.Id(): chainB}

	s := NewSupervisor(chains, allEnabledMode())

	s.handleBatch(EventBatch{
		ChainId: chainA.Id(),
		Height:  Height{RevisionHeight: 1},
		Events: []IbcEvent{
			{Kind: EventUpdateClient, DstChainId: chainB.Id(), DstClientId: "07-tendermint-0"},
			{Kind: EventOpenInitConnection, DstChainId: chainB.Id(), SrcConnectionId: "connection-0"},
			{Kind: EventOpenTryChannel, DstChainId: chainB.Id(), SrcChannelId: "channel-0", SrcPortId: "transfer"},
			{Kind: EventSendPacket, DstChainId: chainB.Id(), SrcChannelId: "channel-0", SrcPortId: "transfer", Sequence: 1},
		},
	})

	require.Equal(t, 4, s.WorkerCount())

	s.shutdownAll()
	require.Equal(t, 0, s.WorkerCount())
}

// TestSupervisorSkipsDisabledObjectKinds confirms mode gating: a Client
// event is dropped entirely when ClientsEnabled is false.
func TestSupervisorSkipsDisabledObjectKinds(t *testing.T) {
	chainA := newFakeChain("chainA")
	chainB := newFakeChain("chainB")
	chains := map[ChainId]ChainHandle{chainA.Id(): chainA, chainB.Id(): chainB}

	mode := allEnabledMode()
	mode.ClientsEnabled = false
	s := NewSupervisor(chains, mode)

	s.handleBatch(EventBatch{
		ChainId: chainA.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventUpdateClient, DstChainId: chainB.Id(), DstClientId: "07-tendermint-0"}},
	})

	require.Equal(t, 0, s.WorkerCount())
}

// TestSupervisorReusesExistingWorkerForSameObject confirms the
// at-most-one-live-worker-per-Object invariant: replaying the same
// event twice must not spawn a second worker.
func TestSupervisorReusesExistingWorkerForSameObject(t *testing.T) {
	chainA := newFakeChain("chainA")
	chainB := newFakeChain("chainB")
	chains := map[ChainId]ChainHandle{chainA.Id(): chainA, chainB.Id(): chainB}

	s := NewSupervisor(chains, allEnabledMode())

	ev := EventBatch{
		ChainId: chainA.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventOpenInitConnection, DstChainId: chainB.Id(), SrcConnectionId: "connection-0"}},
	}
	s.handleBatch(ev)
	s.handleBatch(ev)

	require.Equal(t, 1, s.WorkerCount())
	s.shutdownAll()
}

// TestSupervisorRunShutdownScenario exercises the full shutdown flow:
// Run spawns workers as events arrive, Send(Shutdown) tells every
// worker to stop, and Done() closes only once every worker has fully
// exited and been reaped from the WorkerMap.
func TestSupervisorRunShutdownScenario(t *testing.T) {
	chainA := newFakeChain("chainA")
	chainB := newFakeChain("chainB")
	chains := map[ChainId]ChainHandle{chainA.Id(): chainA, chainB.Id(): chainB}

	s := NewSupervisor(chains, allEnabledMode())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Run(ctx)

	s.eventsCh <- EventBatch{
		ChainId: chainA.Id(),
		Height:  Height{RevisionHeight: 1},
		Events:  []IbcEvent{{Kind: EventOpenInitConnection, DstChainId: chainB.Id(), SrcConnectionId: "connection-0"}},
	}

	require.Eventually(t, func() bool { return s.WorkerCount() == 1 }, time.Second, time.Millisecond)

	s.Send(SupervisorCmd{Kind: SupervisorShutdown})

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down in time")
	}

	require.Equal(t, 0, s.WorkerCount(), "every worker must be reaped by the time Done closes")
}

// TestSupervisorReapRemovesStoppedWorker confirms reap() drops the
// Object's entry so a later event respawns a fresh worker rather than
// reusing a handle whose Tasks have already exited.
func TestSupervisorReapRemovesStoppedWorker(t *testing.T) {
	chainA := newFakeChain("chainA")
	chainB := newFakeChain("chainB")
	chains := map[ChainId]ChainHandle{chainA.Id(): chainA, chainB.Id(): chainB}

	s := NewSupervisor(chains, allEnabledMode())

	obj := NewConnectionObject(chainB.Id(), chainA.Id(), "connection-0")
	conn := NewConnection(chainB, chainA, "", "")
	h := SpawnConnectionWorker(obj, conn, s.stoppedCh)
	s.workers.Insert(h)
	require.Equal(t, 1, s.WorkerCount())

	h.Send(WorkerCmd{Kind: CmdShutdown})
	msg := <-s.stoppedCh
	s.reap(msg)

	require.Equal(t, 0, s.WorkerCount())
}
