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

import "time"

const (
	// DefaultRetryInterval is how long SendReliable waits for an ack before resending.
	DefaultRetryInterval = 100 * time.Millisecond
	// DefaultPollInterval bounds every inbox wait so a process notices its own death.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultHeartbeatInterval is the period of heartbeat senders.
	DefaultHeartbeatInterval = 2 * time.Second
	// DefaultHeartbeatTimeoutFactor multiplies the heartbeat interval into the
	// monitor timeout when none is configured.
	DefaultHeartbeatTimeoutFactor = 3
	// DefaultInboxCapacity is the capacity of the general inbox of a process.
	DefaultInboxCapacity = 1024
	// DefaultShutdownTimeout bounds Stop when the caller context carries no deadline.
	DefaultShutdownTimeout = 5 * time.Second

	// terminalHeartbeatBurst is the number of terminal heartbeats sent on
	// graceful completion. A single copy could be dropped in flight.
	terminalHeartbeatBurst = 3
	// revivalAttempts bounds the spawn attempts of a single revival.
	revivalAttempts = 3
	// revivalBackoff is the initial delay between revival attempts.
	revivalBackoff = 10 * time.Millisecond
	// revivalMaxBackoff caps the delay between revival attempts.
	revivalMaxBackoff = 50 * time.Millisecond
	// correlationEpochShift places the spawn epoch of an instance in the high
	// bits of its correlation ids, so that a revived process never reuses
	// the dedup keys of its predecessors.
	correlationEpochShift = 32

	eventsTopic = "topic.events"
)
