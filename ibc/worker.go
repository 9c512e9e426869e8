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

import "sync/atomic"

// WorkerId is assigned by the Supervisor at spawn, monotonically
// increasing.
type WorkerId uint64

var nextWorkerId atomic.Uint64

func allocWorkerId() WorkerId {
	return WorkerId(nextWorkerId.Add(1))
}

// WorkerCmdKind tags a WorkerCmd's variant.
type WorkerCmdKind int

const (
	CmdIbcEvents WorkerCmdKind = iota
	CmdNewBlock
	CmdClearPendingPackets
	CmdShutdown
)

// WorkerCmd is the message Supervisor and external callers send to a
// running Worker's command queue.
type WorkerCmd struct {
	Kind    WorkerCmdKind
	Batch   EventBatch // CmdIbcEvents
	Height  Height     // CmdNewBlock
	Height2 *Height     // CmdClearPendingPackets; nil means "use latest"
	Force   bool        // CmdClearPendingPackets
}

// WorkerMsg is what a running Worker reports back to the Supervisor.
type WorkerMsg struct {
	Kind   WorkerMsgKind
	Id     WorkerId
	Object Object
	Err    error // non-nil for WorkerStopped when the stop was due to a RunError
}

type WorkerMsgKind int

const (
	WorkerStopped WorkerMsgKind = iota
)

// WorkerHandle owns a worker's Task lifetimes; shutting it down fans out
// shutdown to every owned Task.
type WorkerHandle struct {
	Id     WorkerId
	Object Object

	cmdCh chan WorkerCmd
	tasks []*TaskHandle
}

func newWorkerHandle(object Object, cmdBuf int) *WorkerHandle {
	return &WorkerHandle{
		Id:     allocWorkerId(),
		Object: object,
		cmdCh:  make(chan WorkerCmd, cmdBuf),
	}
}

// Send enqueues cmd on the worker's bounded (buffered) command channel,
// blocking while the buffer is full, preserving per-Object order since
// there is exactly one consumer: commands are processed in send order.
func (h *WorkerHandle) Send(cmd WorkerCmd) {
	h.cmdCh <- cmd
}

// Shutdown sends a Shutdown command and fans shutdown out to every Task
// this worker owns.
func (h *WorkerHandle) Shutdown() {
	select {
	case h.cmdCh <- WorkerCmd{Kind: CmdShutdown}:
	default:
	}
	for _, t := range h.tasks {
		t.Shutdown()
	}
}

// ShutdownAndWait shuts down and blocks until every owned Task has exited.
func (h *WorkerHandle) ShutdownAndWait() {
	for _, t := range h.tasks {
		t.ShutdownAndWait()
	}
}

// IsStopped reports whether every Task this worker owns has exited.
func (h *WorkerHandle) IsStopped() bool {
	for _, t := range h.tasks {
		if !t.IsStopped() {
			return false
		}
	}
	return len(h.tasks) > 0
}
