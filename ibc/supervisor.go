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

	"golang.org/x/sync/errgroup"

	"github.com/r5-labs/relayer/log"
)

// SupervisorCmdKind tags a SupervisorCmd's variant.
type SupervisorCmdKind int

const (
	SupervisorShutdown SupervisorCmdKind = iota
	SupervisorClearPendingPackets
)

// SupervisorCmd is sent on the Supervisor's own command channel through
// Supervisor.Send, e.g. to clear a channel's pending packets or to shut
// down.
type SupervisorCmd struct {
	Kind   SupervisorCmdKind
	Object Object  // SupervisorClearPendingPackets: which Packet worker
	Height *Height // optional; nil means "use the latest height"
}

// ModeConfig mirrors the mode.{clients,connections,channels,packets}
// config sections, gating which Object kinds the Supervisor spawns
// workers for.
type ModeConfig struct {
	ClientsEnabled      bool
	ClientsRefresh      bool
	ClientsMisbehaviour bool
	ConnectionsEnabled  bool
	ChannelsEnabled     bool
	PacketsEnabled      bool
	RelayPath           RelayPathConfig
}

// Supervisor is the top-level orchestrator: it subscribes to every
// configured chain, classifies each event to its owning Objects, routes
// commands through the WorkerMap it exclusively owns, and reaps workers
// as they self-report Stopped.
type Supervisor struct {
	chains map[ChainId]ChainHandle
	mode   ModeConfig
	log    log.Logger

	workers   *WorkerMap
	eventsCh  chan EventBatch
	stoppedCh chan WorkerMsg
	cmdCh     chan SupervisorCmd
	doneCh    chan struct{}
}

// NewSupervisor constructs a Supervisor over the given set of chains.
func NewSupervisor(chains map[ChainId]ChainHandle, mode ModeConfig) *Supervisor {
	return &Supervisor{
		chains:    chains,
		mode:      mode,
		log:       log.New("component", "supervisor"),
		workers:   NewWorkerMap(),
		eventsCh:  make(chan EventBatch, 256),
		stoppedCh: make(chan WorkerMsg, 64),
		cmdCh:     make(chan SupervisorCmd, 16),
		doneCh:    make(chan struct{}),
	}
}

// Send enqueues a SupervisorCmd, usable from outside the Run goroutine
// (e.g. the CLI).
func (s *Supervisor) Send(cmd SupervisorCmd) {
	s.cmdCh <- cmd
}

// Run subscribes to every chain and processes events/commands until a
// Shutdown command is received or ctx is cancelled. It blocks until every
// worker has been signalled to stop and its Tasks have exited; it does
// not wait for the workers' Stopped messages.
func (s *Supervisor) Run(ctx context.Context) {
	monitorCtx, cancelMonitors := context.WithCancel(ctx)
	defer cancelMonitors()

	var eg errgroup.Group
	for _, chain := range s.chains {
		mon := NewEventMonitor(chain, s.eventsCh)
		eg.Go(func() error {
			mon.Run(monitorCtx)
			return nil
		})
	}

	for {
		select {
		case <-ctx.Done():
			s.shutdownAll()
			cancelMonitors()
			eg.Wait()
			close(s.doneCh)
			return
		case batch := <-s.eventsCh:
			s.handleBatch(batch)
		case msg := <-s.stoppedCh:
			s.reap(msg)
		case cmd := <-s.cmdCh:
			switch cmd.Kind {
			case SupervisorShutdown:
				s.shutdownAll()
				cancelMonitors()
				eg.Wait()
				close(s.doneCh)
				return
			case SupervisorClearPendingPackets:
				if h, ok := s.workers.Get(cmd.Object); ok {
					h.Send(WorkerCmd{Kind: CmdClearPendingPackets, Height2: cmd.Height, Force: true})
				}
			}
		}
	}
}

// Done is closed once Run has fully shut down every worker.
func (s *Supervisor) Done() <-chan struct{} { return s.doneCh }

// WorkerCount reports the number of live workers, for tests and
// diagnostics.
func (s *Supervisor) WorkerCount() int { return s.workers.Len() }

// handleBatch computes the (Object, WorkerCmd) pairs an EventBatch
// yields and dispatches each.
func (s *Supervisor) handleBatch(batch EventBatch) {
	grouped := make(map[Object][]IbcEvent)
	for _, ev := range batch.Events {
		for _, obj := range ObjectsForEvent(batch.ChainId, ev) {
			if !s.kindEnabled(obj.Kind) {
				continue
			}
			grouped[obj] = append(grouped[obj], ev)
		}
	}
	for obj, evs := range grouped {
		handle := s.getOrSpawn(obj)
		if handle == nil {
			continue
		}
		handle.Send(WorkerCmd{Kind: CmdIbcEvents, Batch: EventBatch{ChainId: batch.ChainId, Height: batch.Height, Events: evs}})
	}

	// Forward a synthesized NewBlock to every Packet worker owning this
	// chain as the source.
	for _, h := range s.workers.All() {
		if h.Object.Kind == ObjectPacket && h.Object.SrcChainId == batch.ChainId {
			h.Send(WorkerCmd{Kind: CmdNewBlock, Height: batch.Height})
		}
	}
}

func (s *Supervisor) kindEnabled(k ObjectKind) bool {
	switch k {
	case ObjectClient:
		return s.mode.ClientsEnabled
	case ObjectConnection:
		return s.mode.ConnectionsEnabled
	case ObjectChannel:
		return s.mode.ChannelsEnabled
	case ObjectPacket:
		return s.mode.PacketsEnabled
	default:
		return false
	}
}

// reap removes a stopped worker from the map. If a subsequent event
// reintroduces the Object, getOrSpawn spawns a fresh worker.
func (s *Supervisor) reap(msg WorkerMsg) {
	s.workers.Remove(msg.Object)
	if msg.Err != nil {
		s.log.Error("worker stopped with error", "obj", msg.Object.ShortName(), "err", msg.Err)
	} else {
		s.log.Info("worker stopped", "obj", msg.Object.ShortName())
	}
}

func (s *Supervisor) shutdownAll() {
	for _, h := range s.workers.All() {
		h.Shutdown()
	}
	for _, h := range s.workers.All() {
		h.ShutdownAndWait()
		s.workers.Remove(h.Object)
	}
}

// getOrSpawn looks up obj's worker, spawning one on demand. Construction
// is a dynamic dispatch on Object.Kind, the one place besides ChainHandle
// where behavioural polymorphism fits better than a single sum-typed
// code path.
func (s *Supervisor) getOrSpawn(obj Object) *WorkerHandle {
	if h, ok := s.workers.Get(obj); ok {
		return h
	}

	dst, ok := s.chains[obj.DstChainId]
	if !ok {
		s.log.Warn("no ChainHandle configured for destination chain", "chain", obj.DstChainId)
		return nil
	}
	src, ok := s.chains[obj.SrcChainId]
	if !ok {
		s.log.Warn("no ChainHandle configured for source chain", "chain", obj.SrcChainId)
		return nil
	}

	var h *WorkerHandle
	switch obj.Kind {
	case ObjectClient:
		client := RestoreForeignClient(obj.DstClientId, dst, src)
		h = SpawnClientWorker(obj, client, s.stoppedCh)
	case ObjectConnection:
		conn := FindConnection(dst, src, "", obj.SrcConnectionId)
		h = SpawnConnectionWorker(obj, conn, s.stoppedCh)
	case ObjectChannel:
		ch := FindChannel(dst, src, "", obj.SrcChannelId, obj.SrcPortId, obj.SrcPortId)
		h = SpawnChannelWorker(obj, ch, s.stoppedCh)
	case ObjectPacket:
		link := s.buildLink(obj, src, dst)
		h = SpawnPacketWorker(obj, link, s.mode.RelayPath, s.stoppedCh)
	default:
		return nil
	}
	s.workers.Insert(h)
	s.log.Info("spawned worker", "obj", obj.ShortName(), "id", h.Id)
	return h
}

// buildLink resolves the counterparty channel id and the client ids
// backing both sides of the channel's connection (via each side's
// ChannelEnd.ConnectionId) before constructing the Link, so
// RelayPath.RefreshSchedule can query client trusted height on either
// side.
func (s *Supervisor) buildLink(obj Object, src, dst ChainHandle) *Link {
	ctx := context.Background()
	dstClient := ClientId("")
	srcClient := ClientId("")
	dstChannel := ChannelId("")

	srcEnd, err := src.QueryChannel(ctx, obj.SrcPortId, obj.SrcChannelId, ZeroHeight)
	if err != nil {
		s.log.Warn("could not query source channel end while building link", "obj", obj.ShortName(), "err", err)
		return NewLink(src, dst, srcClient, dstClient, obj.SrcPortId, obj.SrcChannelId, dstChannel, s.mode.RelayPath)
	}
	dstChannel = srcEnd.Counterparty

	if conn, err := src.QueryConnection(ctx, srcEnd.ConnectionId, ZeroHeight); err == nil {
		srcClient = conn.ClientId
	}
	if dstEnd, err := dst.QueryChannel(ctx, obj.SrcPortId, dstChannel, ZeroHeight); err == nil {
		if conn, err := dst.QueryConnection(ctx, dstEnd.ConnectionId, ZeroHeight); err == nil {
			dstClient = conn.ClientId
		}
	}

	return NewLink(src, dst, srcClient, dstClient, obj.SrcPortId, obj.SrcChannelId, dstChannel, s.mode.RelayPath)
}
