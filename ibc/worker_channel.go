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

// ChannelWorker drives the channel handshake, analogous to
// ConnectionWorker.
type ChannelWorker struct {
	handle  *WorkerHandle
	channel *Channel
	log     log.Logger
	retry   *retrier
	lastErr error
}

// SpawnChannelWorker starts a ChannelWorker, reporting to stoppedCh on
// exit.
func SpawnChannelWorker(object Object, channel *Channel, stoppedCh chan<- WorkerMsg) *WorkerHandle {
	h := newWorkerHandle(object, 64)
	w := &ChannelWorker{
		handle:  h,
		channel: channel,
		log:     log.New("worker", "channel", "obj", object.ShortName()),
		retry:   newRetrier(DefaultRetryPolicy),
	}
	task := SpawnBackgroundTask("channel_handshake", 0, w.step, w.log)
	h.tasks = []*TaskHandle{task}
	go w.watchStop(stoppedCh)
	return h
}

func (w *ChannelWorker) watchStop(stoppedCh chan<- WorkerMsg) {
	w.handle.tasks[0].task.wg.Wait()
	stoppedCh <- WorkerMsg{Kind: WorkerStopped, Id: w.handle.Id, Object: w.handle.Object, Err: w.lastErr}
}

func (w *ChannelWorker) step(done <-chan struct{}) *taskOutcome {
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

	step, err := w.channel.Step(ctx)
	if err != nil {
		if !w.retry.next(ctx) {
			w.lastErr = &RunError{Object: w.handle.Object, Cause: err}
			return errFatal(err)
		}
		return errIgnore(err)
	}
	if step == ChanStepDone {
		w.log.Info("channel open on both sides")
		return errAbort()
	}
	return nil
}
