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

package testkit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/address"
	"github.com/tochemey/faultsim/eventstream"
)

// DefaultTimeout bounds every expectation without an explicit duration.
const DefaultTimeout = 3 * time.Second

// event is implemented by every lifecycle event of the system.
type event interface {
	ID() address.ID
}

// Probe asserts the lifecycle events published by a system.
type Probe struct {
	pt             *testing.T
	system         *actor.System
	subscriber     eventstream.Subscriber
	defaultTimeout time.Duration
	lastEvent      any
}

func newProbe(t *testing.T, system *actor.System) (*Probe, error) {
	subscriber, err := system.Subscribe()
	if err != nil {
		return nil, err
	}
	return &Probe{
		pt:             t,
		system:         system,
		subscriber:     subscriber,
		defaultTimeout: DefaultTimeout,
	}, nil
}

// ExpectSpawned asserts that the process id is spawned.
func (x *Probe) ExpectSpawned(id address.ID) *actor.ProcessSpawned {
	return expect[*actor.ProcessSpawned](x, x.defaultTimeout, id, nil)
}

// ExpectTerminated asserts that the process id terminates for reason.
func (x *Probe) ExpectTerminated(id address.ID, reason actor.TerminationReason) *actor.ProcessTerminated {
	return expect(x, x.defaultTimeout, id, func(e *actor.ProcessTerminated) bool { return e.Reason() == reason })
}

// ExpectRevived asserts that the process id is revived by a monitor.
func (x *Probe) ExpectRevived(id address.ID) *actor.ProcessRevived {
	return x.ExpectRevivedWithin(x.defaultTimeout, id)
}

// ExpectRevivedWithin asserts that the process id is revived within a time duration.
func (x *Probe) ExpectRevivedWithin(duration time.Duration, id address.ID) *actor.ProcessRevived {
	return expect[*actor.ProcessRevived](x, duration, id, nil)
}

// ExpectRevivalFailed asserts that a monitor fails to revive the process id.
func (x *Probe) ExpectRevivalFailed(id address.ID) *actor.RevivalFailed {
	return expect[*actor.RevivalFailed](x, x.defaultTimeout, id, nil)
}

// ExpectMonitorStopped asserts that the monitor of the process id observes
// its graceful completion.
func (x *Probe) ExpectMonitorStopped(id address.ID) *actor.MonitorStopped {
	return expect[*actor.MonitorStopped](x, x.defaultTimeout, id, nil)
}

// ExpectFatalError asserts that the process id hits a fatal error and
// returns it.
func (x *Probe) ExpectFatalError(id address.ID) error {
	return expect[*actor.FatalError](x, x.defaultTimeout, id, nil).Err()
}

// ExpectNoEvent asserts that nothing is published within a time duration.
func (x *Probe) ExpectNoEvent(duration time.Duration) {
	next, ok := x.subscriber.Next(duration)
	if ok {
		require.Fail(x.pt, fmt.Sprintf("unexpected event %T", next.Payload()))
	}
}

// LastEvent returns the last event the probe consumed.
func (x *Probe) LastEvent() any {
	return x.lastEvent
}

// Stop stops the probe
func (x *Probe) Stop() {
	require.NoError(x.pt, x.system.Unsubscribe(x.subscriber))
}

// receiveOne returns the next event published within max, nil otherwise.
func (x *Probe) receiveOne(max time.Duration) any {
	next, ok := x.subscriber.Next(max)
	if !ok {
		return nil
	}
	x.lastEvent = next.Payload()
	return x.lastEvent
}

// expect skips events until one of type T for id satisfying match shows
// up within max.
func expect[T event](x *Probe, max time.Duration, id address.ID, match func(T) bool) T {
	x.pt.Helper()
	deadline := time.Now().Add(max)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		received := x.receiveOne(remaining)
		e, ok := received.(T)
		if ok && e.ID() == id && (match == nil || match(e)) {
			return e
		}
	}

	var zero T
	require.Fail(x.pt, fmt.Sprintf("timeout (%v) while waiting for %T of process=(%d)", max, zero, id))
	return zero
}
