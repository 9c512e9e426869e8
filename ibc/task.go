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
	"sync"
	"sync/atomic"
	"time"

	"github.com/r5-labs/relayer/log"
)

// StepFunc is the unit of repeated work a Task performs. Its result
// drives the Task's control flow: nil continues, errAbort/errIgnore/
// errFatal decide whether the loop stops and how the outcome is logged.
// done is the Task's shutdown channel; a step that blocks on its own
// command channel should select on done alongside it so shutdown is
// still observed promptly.
type StepFunc func(done <-chan struct{}) *taskOutcome

// Task is the universal unit of concurrent work in the relay engine: a
// named background activity with a shutdown channel and a stopped flag.
type Task struct {
	name     string
	interval time.Duration
	step     StepFunc
	log      log.Logger

	shutdownCh chan struct{}
	stopped    atomic.Bool
	wg         sync.WaitGroup
}

// TaskHandle is the externally visible lifetime control surface for a
// running Task. Dropping a TaskHandle does not stop the Task; it runs
// until Shutdown or ShutdownAndWait is called or its step returns Fatal
// or Abort.
type TaskHandle struct {
	task *Task
}

// SpawnBackgroundTask launches a dedicated goroutine that repeats step
// until shutdown or a Fatal/Abort outcome, sleeping interval between
// iterations when interval > 0. It is the only concurrency primitive the
// relay engine uses; no async runtime is required.
func SpawnBackgroundTask(name string, interval time.Duration, step StepFunc, logger log.Logger) *TaskHandle {
	if logger == nil {
		logger = log.New()
	}
	t := &Task{
		name:       name,
		interval:   interval,
		step:       step,
		log:        logger.New("task", name),
		shutdownCh: make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run()
	return &TaskHandle{task: t}
}

func (t *Task) run() {
	defer t.wg.Done()
	defer t.stopped.Store(true)

	for {
		select {
		case <-t.shutdownCh:
			t.log.Debug("task shutting down")
			return
		default:
		}

		outcome := t.step(t.shutdownCh)
		if outcome != nil {
			switch outcome.kind {
			case outcomeIgnore:
				t.log.Warn("task step ignored error", "err", outcome.err)
			case outcomeFatal:
				t.log.Error("task step fatal", "err", outcome.err)
				return
			case outcomeAbort:
				t.log.Info("task aborting, work complete")
				return
			}
		}

		if t.interval > 0 {
			select {
			case <-t.shutdownCh:
				t.log.Debug("task shutting down")
				return
			case <-time.After(t.interval):
			}
		}
	}
}

// Shutdown signals the Task to stop at its next check; it does not block
// until the Task has actually exited.
func (h *TaskHandle) Shutdown() {
	select {
	case <-h.task.shutdownCh:
		// already closed
	default:
		close(h.task.shutdownCh)
	}
}

// ShutdownAndWait signals shutdown and blocks until the Task's goroutine
// has returned.
func (h *TaskHandle) ShutdownAndWait() {
	h.Shutdown()
	h.task.wg.Wait()
}

// IsStopped reports whether the Task's goroutine has exited, for any
// reason (shutdown, Fatal, or Abort).
func (h *TaskHandle) IsStopped() bool {
	return h.task.stopped.Load()
}
