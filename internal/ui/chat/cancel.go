// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive conversation screen.
//
// This file manages cancellation of the in-flight generation request.
package chat

import (
	"context"
	"sync"
)

// cancelManager holds the cancel function for the request currently in
// flight. The Bubble Tea model is copied on every Update, so the
// manager is held by pointer and guarded by a mutex: the Update loop
// writes it while the command goroutine may still be reading.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// set stores the cancel function for a newly dispatched request. Any
// previous function is canceled first so an orphaned request cannot
// outlive its replacement.
func (cm *cancelManager) set(cancel context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel != nil {
		cm.cancel()
	}
	cm.cancel = cancel
}

// clear drops the stored function without invoking it. Called at
// settlement, when the request has already finished.
func (cm *cancelManager) clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancel = nil
}

// cancelActive cancels the in-flight request, if any. Reports whether
// there was one to cancel.
func (cm *cancelManager) cancelActive() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel == nil {
		return false
	}
	cm.cancel()
	cm.cancel = nil
	return true
}

// setCancelFunc registers the cancel function for the active request.
func (m *Model) setCancelFunc(cancel context.CancelFunc) {
	m.cancelMgr.set(cancel)
}

// clearCancelFunc forgets the active request's cancel function.
func (m *Model) clearCancelFunc() {
	m.cancelMgr.clear()
}

// cancelActiveRequest cancels the request in flight, if any.
func (m *Model) cancelActiveRequest() bool {
	return m.cancelMgr.cancelActive()
}
