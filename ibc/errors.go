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

import "fmt"

// taskOutcome is the sum type a Task's step function returns: Abort,
// Ignore(err), or Fatal(err). nil means "Ok(()), continue".
type taskOutcome struct {
	kind taskOutcomeKind
	err  error
}

type taskOutcomeKind int

const (
	outcomeOk taskOutcomeKind = iota
	outcomeAbort
	outcomeIgnore
	outcomeFatal
)

func errAbort() *taskOutcome { return &taskOutcome{kind: outcomeAbort} }

func errIgnore(err error) *taskOutcome { return &taskOutcome{kind: outcomeIgnore, err: err} }

func errFatal(err error) *taskOutcome { return &taskOutcome{kind: outcomeFatal, err: err} }
func wrapFatal(format string, a ...any) *taskOutcome {
	return errFatal(fmt.Errorf(format, a...))
}

// ChainErrorKind classifies an error returned by a ChainHandle method
// into one of three buckets: Retryable, ClientFatal, or Validation.
type ChainErrorKind int

const (
	// ChainErrorRetryable covers transient I/O: dropped connections,
	// timeouts, a full mempool.
	ChainErrorRetryable ChainErrorKind = iota
	// ChainErrorClientFatal means the destination client has expired or
	// been frozen; no retry will recover it.
	ChainErrorClientFatal
	// ChainErrorValidation means the submitted datagram was malformed or
	// referenced a sequence gap; the operational data is dropped.
	ChainErrorValidation
)

func (k ChainErrorKind) String() string {
	switch k {
	case ChainErrorRetryable:
		return "retryable"
	case ChainErrorClientFatal:
		return "client-fatal"
	case ChainErrorValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ChainError wraps an underlying cause with its classification so callers
// can decide whether to retry, drop, or escalate.
type ChainError struct {
	Kind  ChainErrorKind
	Cause error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *ChainError) Unwrap() error { return e.Cause }

func newChainError(kind ChainErrorKind, cause error) *ChainError {
	return &ChainError{Kind: kind, Cause: cause}
}

// NewChainError lets a ChainHandle implementation outside this package
// (e.g. chainclient.Client) classify a transport failure into the
// Retryable/ClientFatal/Validation taxonomy every ChainHandle method
// must use.
func NewChainError(kind ChainErrorKind, cause error) *ChainError {
	return newChainError(kind, cause)
}

// IsRetryable reports whether err is a ChainError classified Retryable.
func IsRetryable(err error) bool {
	var ce *ChainError
	return asChainError(err, &ce) && ce.Kind == ChainErrorRetryable
}

// IsClientFatal reports whether err is a ChainError classified ClientFatal.
func IsClientFatal(err error) bool {
	var ce *ChainError
	return asChainError(err, &ce) && ce.Kind == ChainErrorClientFatal
}

func asChainError(err error, target **ChainError) bool {
	for err != nil {
		if ce, ok := err.(*ChainError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ErrExpiredOrFrozen is returned by ForeignClient.Refresh when the client
// cannot be recovered by submitting a fresh header. The ClientWorker
// treats this as completion, not error.
var ErrExpiredOrFrozen = fmt.Errorf("client expired or frozen")

// ErrGasEstimateExceeded is returned by fee estimation when simulated gas
// use exceeds the chain's configured max_gas.
var ErrGasEstimateExceeded = fmt.Errorf("gas estimate exceeds configured max_gas")

// ErrCannotExecute is returned by misbehaviour detection when the
// destination chain lacks support for submitting evidence.
var ErrCannotExecute = fmt.Errorf("chain cannot execute misbehaviour evidence submission")

// RunError is the error a Worker surfaces to the Supervisor in
// WorkerMsg.Stopped when it terminates abnormally (Fatal), as opposed to
// a clean, successful completion.
type RunError struct {
	Object Object
	Cause  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("worker for %s stopped: %v", e.Object.ShortName(), e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }
