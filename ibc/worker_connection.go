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

// ConnectionWorker drives the connection handshake in reaction to
// IbcEvents, one Task. It terminates normally once the connection
// reaches Open on both sides.
type ConnectionWorker struct {
	handle  *WorkerHandle
	conn    *Connection
	log     log.Logger
	retry   *retrier
	lastErr error
}

// SpawnConnectionWorker starts a ConnectionWorker, reporting to stoppedCh
// on exit.
func SpawnConnectionWorker(object Object, conn *Connection, stoppedCh chan<- WorkerMsg) *WorkerHandle {
	h := newWorkerHandle(object, 64)
	w := &ConnectionWorker{
		handle: h,
		conn:   conn,
		log:    log.New("worker", "connection", "obj", object.ShortName()),
		retry:  newRetrier(DefaultRetryPolicy),
	}
	task := SpawnBackgroundTask("connection_handshake", 0, w.step, w.log)
	h.tasks = []*TaskHandle{task}
	go w.watchStop(stoppedCh)
	return h
}

func (w *ConnectionWorker) watchStop(stoppedCh chan<- WorkerMsg) {
	w.handle.tasks[0].task.wg.Wait()
	stoppedCh <- WorkerMsg{Kind: WorkerStopped, Id: w.handle.Id, Object: w.handle.Object, Err: w.lastErr}
}

// step blocks on the command queue, reacting to the handshake events
// (OpenInit/OpenTry/OpenAck/OpenConfirm), driving the next step on each
// IbcEvents delivery.
func (w *ConnectionWorker) step(done <-chan struct{}) *taskOutcome {
	var cmd WorkerCmd
	select {
	case <-done:
		return errAbort()
	case cmd = <-w.handle.cmdCh:
	}
	if cmd.Kind == CmdShutdown {
		return errAbort()
	}
	if cmd.Kind != CmdIbcEvents {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	step, err := w.conn.Step(ctx)
	if err != nil {
		if !w.retry.next(ctx) {
			w.lastErr = &RunError{Object: w.handle.Object, Cause: err}
			return errFatal(err)
		}
		return errIgnore(err)
	}
	if step == ConnStepDone {
		w.log.Info("connection open on both sides")
		return errAbort()
	}
	return nil
}
