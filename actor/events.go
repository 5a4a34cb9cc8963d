// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"time"

	"github.com/tochemey/faultsim/address"
)

// TerminationReason tells how a process left the registry.
type TerminationReason int

const (
	// Completed means the process finished on purpose.
	Completed TerminationReason = iota
	// Killed means the process was killed by the fault injector or System.Kill.
	Killed
	// Crashed means the process hit a fatal error or its program panicked.
	Crashed
	// Stopped means the process was terminated by System.Stop.
	Stopped
)

// String returns the reason in lower case.
func (r TerminationReason) String() string {
	switch r {
	case Completed:
		return "completed"
	case Killed:
		return "killed"
	case Crashed:
		return "crashed"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// premature reports whether the process died without completing.
func (r TerminationReason) premature() bool {
	return r != Completed
}

// ProcessSpawned is published when a process is registered.
type ProcessSpawned struct {
	id        address.ID
	spawnedAt time.Time
}

// ID returns the process id.
func (e *ProcessSpawned) ID() address.ID { return e.id }

// SpawnedAt returns the spawn time.
func (e *ProcessSpawned) SpawnedAt() time.Time { return e.spawnedAt }

// ProcessTerminated is published when a process leaves the registry.
type ProcessTerminated struct {
	id           address.ID
	reason       TerminationReason
	terminatedAt time.Time
}

// ID returns the process id.
func (e *ProcessTerminated) ID() address.ID { return e.id }

// Reason returns why the process terminated.
func (e *ProcessTerminated) Reason() TerminationReason { return e.reason }

// TerminatedAt returns the termination time.
func (e *ProcessTerminated) TerminatedAt() time.Time { return e.terminatedAt }

// ProcessRevived is published when a heartbeat monitor respawns a silent peer.
type ProcessRevived struct {
	id        address.ID
	monitor   address.ID
	revivedAt time.Time
}

// ID returns the revived process id.
func (e *ProcessRevived) ID() address.ID { return e.id }

// Monitor returns the id of the process that revived the peer.
func (e *ProcessRevived) Monitor() address.ID { return e.monitor }

// RevivedAt returns the revival time.
func (e *ProcessRevived) RevivedAt() time.Time { return e.revivedAt }

// RevivalFailed is published when a heartbeat monitor could not respawn a
// silent peer, typically because the peer is still registered.
type RevivalFailed struct {
	id      address.ID
	monitor address.ID
	err     error
}

// ID returns the peer id.
func (e *RevivalFailed) ID() address.ID { return e.id }

// Monitor returns the id of the monitoring process.
func (e *RevivalFailed) Monitor() address.ID { return e.monitor }

// Err returns the spawn error.
func (e *RevivalFailed) Err() error { return e.err }

// MonitorStopped is published when a heartbeat monitor observes the
// terminal heartbeat of its peer.
type MonitorStopped struct {
	id      address.ID
	monitor address.ID
}

// ID returns the peer id.
func (e *MonitorStopped) ID() address.ID { return e.id }

// Monitor returns the id of the monitoring process.
func (e *MonitorStopped) Monitor() address.ID { return e.monitor }

// FatalError is published when a process hits a structural violation.
type FatalError struct {
	id  address.ID
	err error
}

// ID returns the process id.
func (e *FatalError) ID() address.ID { return e.id }

// Err returns the violation.
func (e *FatalError) Err() error { return e.err }
