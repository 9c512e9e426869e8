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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnBackgroundTaskStopsOnAbort(t *testing.T) {
	var calls atomic.Int32
	h := SpawnBackgroundTask("test-abort", 0, func(done <-chan struct{}) *taskOutcome {
		calls.Add(1)
		return errAbort()
	}, nil)

	require.Eventually(t, h.IsStopped, time.Second, time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestSpawnBackgroundTaskStopsOnFatal(t *testing.T) {
	var calls atomic.Int32
	h := SpawnBackgroundTask("test-fatal", 0, func(done <-chan struct{}) *taskOutcome {
		calls.Add(1)
		return errFatal(errors.New("boom"))
	}, nil)

	require.Eventually(t, h.IsStopped, time.Second, time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestSpawnBackgroundTaskShutdownStopsLoop(t *testing.T) {
	var calls atomic.Int32
	h := SpawnBackgroundTask("test-shutdown", time.Millisecond, func(done <-chan struct{}) *taskOutcome {
		calls.Add(1)
		return nil
	}, nil)

	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
	h.ShutdownAndWait()
	require.True(t, h.IsStopped())

	seenAtShutdown := calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, seenAtShutdown, calls.Load(), "no further steps should run after shutdown")
}

func TestSpawnBackgroundTaskIgnoreContinuesLooping(t *testing.T) {
	var calls atomic.Int32
	h := SpawnBackgroundTask("test-ignore", 0, func(done <-chan struct{}) *taskOutcome {
		n := calls.Add(1)
		if n >= 3 {
			return errAbort()
		}
		return errIgnore(errors.New("transient"))
	}, nil)

	require.Eventually(t, h.IsStopped, time.Second, time.Millisecond)
	require.Equal(t, int32(3), calls.Load())
}
