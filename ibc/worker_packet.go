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
	"time"

	"github.com/r5-labs/relayer/log"
)

// PacketWorker relays packets, acks and timeouts over one channel,
// running two Tasks that share the same Link: packet_cmd_worker
// (cmd-driven schedule updates and clearing) and link_worker (periodic
// refresh/execute/process-pending).
type PacketWorker struct {
	handle *WorkerHandle
	link   *Link
	log    log.Logger
	cfg    RelayPathConfig

	sawFirstBlock bool
	lastErr       error
}

// SpawnPacketWorker starts a PacketWorker for link, reporting to
// stoppedCh on exit.
func SpawnPacketWorker(object Object, link *Link, cfg RelayPathConfig, stoppedCh chan<- WorkerMsg) *WorkerHandle {
	h := newWorkerHandle(object, 256)
	w := &PacketWorker{
		handle: h,
		link:   link,
		cfg:    cfg,
		log:    log.New("worker", "packet", "obj", object.ShortName()),
	}
	cmdTask := SpawnBackgroundTask("packet_cmd_worker", 0, w.cmdStep, w.log)
	linkTask := SpawnBackgroundTask("link_worker", 500*time.Millisecond, w.linkStep, w.log)
	h.tasks = []*TaskHandle{cmdTask, linkTask}
	go w.watchStop(stoppedCh)
	return h
}

func (w *PacketWorker) watchStop(stoppedCh chan<- WorkerMsg) {
	for _, t := range w.handle.tasks {
		t.task.wg.Wait()
	}
	stoppedCh <- WorkerMsg{Kind: WorkerStopped, Id: w.handle.Id, Object: w.handle.Object, Err: w.lastErr}
}

// cmdStep dispatches one command: IbcEvents to update_schedule, NewBlock
// to schedule_packet_clearing (forced once at start when clear_on_start
// is configured, then the periodic clear_interval path inside RelayPath
// takes over), ClearPendingPackets to forced clearing. A closed command
// channel is Fatal.
func (w *PacketWorker) cmdStep(done <-chan struct{}) *taskOutcome {
	var cmd WorkerCmd
	var ok bool
	select {
	case <-done:
		return errAbort()
	case cmd, ok = <-w.handle.cmdCh:
	}
	if !ok {
		out := wrapFatal("packet worker command channel closed")
		w.lastErr = &RunError{Object: w.handle.Object, Cause: out.err}
		// WorkerHandle.Shutdown would send on the closed channel; stop the
		// sibling Task directly so watchStop can report.
		for _, t := range w.handle.tasks {
			t.Shutdown()
		}
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd.Kind {
	case CmdShutdown:
		return errAbort()
	case CmdIbcEvents:
		w.link.UpdateSchedule(cmd.Batch)
	case CmdNewBlock:
		force := false
		if !w.sawFirstBlock {
			w.sawFirstBlock = true
			force = w.cfg.ClearOnStart
		}
		height := cmd.Height
		if out := w.link.SchedulePacketClearing(ctx, &height, force); out != nil {
			return out
		}
	case CmdClearPendingPackets:
		if out := w.link.SchedulePacketClearing(ctx, cmd.Height2, true); out != nil {
			return out
		}
	}
	return nil
}

// linkStep runs the schedule/execute pipeline once per tick. Ignore
// outcomes from the refresh and pending-tx phases are dropped and the
// next tick retries; a Fatal outcome stops both Tasks and is reported as
// the worker's RunError.
func (w *PacketWorker) linkStep(done <-chan struct{}) *taskOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fatal := func(out *taskOutcome) *taskOutcome {
		w.lastErr = &RunError{Object: w.handle.Object, Cause: out.err}
		for _, t := range w.handle.tasks {
			t.Shutdown()
		}
		return out
	}
	if out := w.link.RefreshSchedule(ctx); out != nil && out.kind == outcomeFatal {
		return fatal(out)
	}
	if out := w.link.ExecuteSchedule(ctx); out != nil {
		if out.kind == outcomeFatal {
			return fatal(out)
		}
		return out
	}
	if out := w.link.ProcessPendingTxs(ctx); out != nil && out.kind == outcomeFatal {
		return fatal(out)
	}
	return nil
}
