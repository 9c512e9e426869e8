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

import "golang.org/x/exp/maps"

// WorkerMap is the registry mapping Object to WorkerHandle, exclusively
// owned by the Supervisor. It is not safe for concurrent use by multiple
// goroutines — the Supervisor is its only caller; other threads interact
// only via message channels.
type WorkerMap struct {
	byObject map[Object]*WorkerHandle
}

// NewWorkerMap constructs an empty registry.
func NewWorkerMap() *WorkerMap {
	return &WorkerMap{byObject: make(map[Object]*WorkerHandle)}
}

// Get returns the live worker for object, if any.
func (m *WorkerMap) Get(object Object) (*WorkerHandle, bool) {
	h, ok := m.byObject[object]
	return h, ok
}

// Insert registers a newly spawned worker. Callers must ensure at most
// one worker per Object is ever inserted at a time; the Supervisor
// enforces this by always calling Get before Insert.
func (m *WorkerMap) Insert(h *WorkerHandle) {
	m.byObject[h.Object] = h
}

// Remove deletes object's entry, used when the Supervisor receives
// WorkerMsg.Stopped and reaps the worker.
func (m *WorkerMap) Remove(object Object) {
	delete(m.byObject, object)
}

// Len reports the number of live workers, used by tests asserting the
// Supervisor shutdown scenario.
func (m *WorkerMap) Len() int {
	return len(m.byObject)
}

// All returns every live WorkerHandle, for shutdown fan-out.
func (m *WorkerMap) All() []*WorkerHandle {
	return maps.Values(m.byObject)
}
