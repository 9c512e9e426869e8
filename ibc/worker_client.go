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
	"sync/atomic"
	"time"

	"github.com/r5-labs/relayer/log"
)

// ClientWorker relays UpdateClient headers and misbehaviour evidence for
// one light client. It runs two Tasks: refresh_client (1s) and
// detect_misbehaviour (600ms, cmd-driven).
//
// Either Task reaching a terminal state for the client (expired/frozen,
// or misbehaviour evidence submitted/unsubmittable) calls handle.Shutdown,
// which fans out to the sibling Task's shutdown channel so watchStop
// observes both Tasks exit instead of hanging on the one still running.
type ClientWorker struct {
	handle *WorkerHandle
	client *ForeignClient
	log    log.Logger

	cmdCh        chan WorkerCmd
	expired      atomic.Bool
	evidenceDone atomic.Bool
}

// SpawnClientWorker starts a ClientWorker for client, reporting to
// stoppedCh when both Tasks have exited.
func SpawnClientWorker(object Object, client *ForeignClient, stoppedCh chan<- WorkerMsg) *WorkerHandle {
	h := newWorkerHandle(object, 64)
	w := &ClientWorker{
		handle: h,
		client: client,
		log:    log.New("worker", "client", "obj", object.ShortName()),
		cmdCh:  h.cmdCh,
	}

	refreshHandle := SpawnBackgroundTask("refresh_client", time.Second, w.refreshStep, w.log)
	misbehaviourHandle := SpawnBackgroundTask("detect_misbehaviour", 600*time.Millisecond, w.misbehaviourStep, w.log)
	h.tasks = []*TaskHandle{refreshHandle, misbehaviourHandle}

	go w.watchStop(stoppedCh)
	return h
}

// watchStop blocks until both Tasks have exited, then reports Stopped to
// the Supervisor. A ClientWorker always stops successfully — no RunError
// is ever surfaced for this worker kind, whether it stopped because the
// client expired, evidence was submitted, or it was asked to shut down.
func (w *ClientWorker) watchStop(stoppedCh chan<- WorkerMsg) {
	for _, t := range w.handle.tasks {
		t.task.wg.Wait()
	}
	stoppedCh <- WorkerMsg{Kind: WorkerStopped, Id: w.handle.Id, Object: w.handle.Object}
}

// refreshStep calls ForeignClient.Refresh once per tick. ExpiredOrFrozen
// aborts the refresh task and additionally stops the whole worker the
// first time it is observed, since a dead client has nothing left for
// the misbehaviour task to usefully watch either.
func (w *ClientWorker) refreshStep(done <-chan struct{}) *taskOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := w.client.Refresh(ctx)
	if err == nil {
		return nil
	}
	if err == ErrExpiredOrFrozen {
		if w.expired.CompareAndSwap(false, true) {
			w.log.Info("client expired or frozen, stopping worker")
			w.handle.Shutdown()
		}
		return errAbort()
	}
	return errIgnore(err)
}

// misbehaviourStep drains pending UpdateClient events from the cmd queue
// and checks each against the reference chain. Terminates (Abort) on
// EvidenceSubmitted or CannotExecute.
func (w *ClientWorker) misbehaviourStep(done <-chan struct{}) *taskOutcome {
	select {
	case <-done:
		return errAbort()
	case cmd := <-w.cmdCh:
		switch cmd.Kind {
		case CmdShutdown:
			return errAbort()
		case CmdIbcEvents:
			for _, ev := range cmd.Batch.Events {
				if ev.Kind != EventUpdateClient {
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				outcome := w.client.DetectMisbehaviourAndSubmitEvidence(ctx, &UpdateEvent{})
				cancel()
				switch outcome.Kind {
				case MisbehaviourEvidenceSubmitted:
					w.evidenceDone.Store(true)
					w.log.Info("misbehaviour evidence submitted", "tx", outcome.TxHash)
					w.handle.Shutdown()
					return errAbort()
				case MisbehaviourCannotExecute:
					w.evidenceDone.Store(true)
					w.log.Warn("chain cannot execute misbehaviour evidence submission")
					w.handle.Shutdown()
					return errAbort()
				case MisbehaviourVerificationError:
					return errIgnore(outcome.Err)
				}
			}
		}
	}
	return nil
}
