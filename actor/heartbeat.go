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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/internal/ticker"
	"github.com/tochemey/faultsim/message"
)

// watch is what a monitoring process knows about the heartbeats of a peer.
type watch struct {
	mu             sync.Mutex
	lastSeenMarker uint64
	lastSeenAt     time.Time
	terminal       bool
	signal         chan struct{}
}

func newWatch() *watch {
	return &watch{signal: make(chan struct{}, 1)}
}

func (w *watch) observe(heartbeat *message.Heartbeat) {
	w.mu.Lock()
	w.lastSeenMarker = heartbeat.Sequence()
	w.lastSeenAt = time.Now()
	if heartbeat.IsTerminal() {
		w.terminal = true
	}
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// heard reports whether a heartbeat of the peer has been observed.
func (w *watch) heard() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.lastSeenAt.IsZero()
}

func (w *watch) isTerminal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminal
}

func (x *Process) heartbeatConfig(opts []HeartbeatOption) *heartbeatConfig {
	config := &heartbeatConfig{
		interval: x.system.heartbeatInterval,
		timeout:  x.system.heartbeatTimeout,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// StartHeartbeatSender sends a heartbeat to peer now and then at every
// interval while the process lives. On graceful completion the sender
// emits the terminal heartbeat so that the monitor of peer stops instead
// of reviving this process.
func (x *Process) StartHeartbeatSender(peer address.ID, opts ...HeartbeatOption) error {
	if !x.alive.Load() {
		return gerrors.NewErrSelfTerminated(x.id.Int())
	}

	config := x.heartbeatConfig(opts)
	x.system.wg.Add(1)
	go x.heartbeatSenderLoop(peer, config.interval)
	return nil
}

func (x *Process) heartbeatSenderLoop(peer address.ID, interval time.Duration) {
	defer x.system.wg.Done()

	tk := ticker.New(interval)
	tk.Start()
	defer tk.Stop()

	var sequence uint64
	beat := func() {
		sequence++
		x.transmit(peer, message.NewHeartbeat(x.id, sequence, ""))
	}

	beat()
	for {
		select {
		case <-x.ctx.Done():
			if x.terminationReason() == Completed {
				for range terminalHeartbeatBurst {
					sequence++
					x.transmit(peer, message.NewTerminalHeartbeat(x.id, sequence))
				}
			}
			return
		case <-tk.Ticks:
			beat()
		}
	}
}

// StartHeartbeatMonitor watches the heartbeats of peer. When none arrives
// within the monitor timeout the peer is considered failed and revived:
// a process is spawned under the same id with factory and startup. The
// monitor stops when the terminal heartbeat of peer is observed or when
// this process dies.
func (x *Process) StartHeartbeatMonitor(peer address.ID, factory Factory, startup Startup, opts ...HeartbeatOption) error {
	if !x.alive.Load() {
		return gerrors.NewErrSelfTerminated(x.id.Int())
	}

	if factory == nil {
		return gerrors.ErrInvalidFactory
	}

	config := x.heartbeatConfig(opts)
	key := watchKey{peer: peer, serial: x.monitors.Inc()}
	w := newWatch()
	x.watches.Set(key, w)
	x.system.wg.Add(1)
	go x.heartbeatMonitorLoop(key, w, factory, startup, config.timeout)
	return nil
}

func (x *Process) heartbeatMonitorLoop(key watchKey, w *watch, factory Factory, startup Startup, timeout time.Duration) {
	defer x.system.wg.Done()
	defer x.watches.Delete(key)

	peer := key.peer

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-x.ctx.Done():
			return
		case <-w.signal:
			if w.isTerminal() {
				x.logger.Infof("process=(%d) observed completion of process=(%d), monitor stopped", x.id, peer)
				x.system.eventsStream.Publish(eventsTopic, &MonitorStopped{id: peer, monitor: x.id})
				return
			}
			timer.Reset(timeout)
		case <-timer.C:
			x.revive(peer, w, factory, startup)
			timer.Reset(timeout)
		}
	}
}

// revive spawns peer again. Attempts refused because the previous instance
// is still registered are retried briefly before the failure is reported.
// A refused revival of a peer that has been heard from is a slow peer, not a
// dead one, and is only logged at debug level.
func (x *Process) revive(peer address.ID, w *watch, factory Factory, startup Startup) {
	if w.heard() {
		x.logger.Debugf("process=(%d) missed the heartbeats of process=(%d), reviving it", x.id, peer)
	} else {
		x.logger.Warnf("process=(%d) missed the heartbeats of process=(%d), reviving it", x.id, peer)
	}

	retrier := retry.NewRetrier(revivalAttempts, revivalBackoff, revivalMaxBackoff)
	err := retrier.RunContext(x.ctx, func(ctx context.Context) error {
		_, err := x.Spawn(ctx, peer, factory, startup)
		if err != nil && !errors.Is(err, gerrors.ErrDuplicateID) {
			return retry.Stop(err)
		}
		return err
	})

	switch {
	case err == nil:
		x.system.revivals.Inc()
		x.system.eventsStream.Publish(eventsTopic, &ProcessRevived{id: peer, monitor: x.id, revivedAt: time.Now()})
		x.logger.Infof("process=(%d) revived process=(%d)", x.id, peer)
	case x.ctx.Err() != nil:
	default:
		x.system.revivalFailures.Inc()
		x.system.eventsStream.Publish(eventsTopic, &RevivalFailed{id: peer, monitor: x.id, err: err})
		if errors.Is(err, gerrors.ErrDuplicateID) && w.heard() {
			x.logger.Debugf("process=(%d) is late on heartbeats but still running, revival refused", peer)
			return
		}
		x.logger.Errorf("process=(%d) failed to revive process=(%d): %v", x.id, peer, err)
	}
}

func (x *Process) observeHeartbeat(heartbeat *message.Heartbeat) {
	x.watches.Range(func(key watchKey, w *watch) {
		if key.peer == heartbeat.Source() {
			w.observe(heartbeat)
		}
	})
}
