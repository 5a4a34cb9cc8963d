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
	"time"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/message"
)

// Send transmits payload to target once, without waiting for an
// acknowledgement. The message may be lost. Sending to an unknown target is
// not an error. A payload the wire codec cannot carry unchanged is refused
// with errors.ErrProtocolEncode.
func (x *Process) Send(target address.ID, payload string) error {
	if !x.alive.Load() {
		return gerrors.NewErrSelfTerminated(x.id.Int())
	}

	msg := message.NewRegular(x.id, x.nextCorrelation(), payload)
	frame, err := x.system.encode(msg)
	if err != nil {
		return err
	}
	x.system.route(target, msg, frame)
	return nil
}

// SendReliable transmits payload to target and blocks until target
// acknowledges it, resending the identical message after every retry
// interval without an ack. It returns errors.ErrSelfTerminated as soon as
// the sender dies, and the context error when ctx is done first. A payload
// the wire codec cannot carry unchanged is refused with
// errors.ErrProtocolEncode before anything is sent.
//
// Sending to a target that never comes back blocks until the sender dies
// or ctx is done.
func (x *Process) SendReliable(ctx context.Context, target address.ID, payload string, opts ...SendOption) error {
	if !x.alive.Load() {
		return gerrors.NewErrSelfTerminated(x.id.Int())
	}

	config := &sendConfig{retryInterval: x.system.retryInterval}
	for _, opt := range opts {
		opt(config)
	}

	correlation := x.nextCorrelation()
	msg := message.NewRegular(x.id, correlation, payload)
	frame, err := x.system.encode(msg)
	if err != nil {
		return err
	}

	pending := x.registerPending(correlation)
	defer x.removePending(correlation)

	x.system.route(target, msg, frame)

	timer := time.NewTimer(config.retryInterval)
	defer timer.Stop()

	for {
		select {
		case <-pending.signal:
			return nil
		case <-x.ctx.Done():
			return gerrors.NewErrSelfTerminated(x.id.Int())
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if !x.alive.Load() {
				return gerrors.NewErrSelfTerminated(x.id.Int())
			}
			x.system.retransmissions.Inc()
			x.logger.Debugf("process=(%d) resending correlation=(%d) to process=(%d)", x.id, correlation, target)
			x.system.route(target, msg, frame)
			timer.Reset(config.retryInterval)
		}
	}
}

// PendingAcks returns the number of SendReliable calls waiting for an ack.
func (x *Process) PendingAcks() int {
	x.pendingMu.Lock()
	defer x.pendingMu.Unlock()
	return len(x.pending)
}

func (x *Process) nextCorrelation() uint64 {
	return x.correlation.Inc()
}

func (x *Process) registerPending(correlation uint64) *pendingAck {
	pending := &pendingAck{signal: make(chan struct{})}
	x.pendingMu.Lock()
	x.pending[correlation] = pending
	x.pendingMu.Unlock()
	return pending
}

func (x *Process) removePending(correlation uint64) {
	x.pendingMu.Lock()
	delete(x.pending, correlation)
	x.pendingMu.Unlock()
}

// acknowledge releases the pending send waiting for correlation. Acks for
// unknown or already released correlations are ignored.
func (x *Process) acknowledge(correlation uint64) {
	x.pendingMu.Lock()
	defer x.pendingMu.Unlock()

	pending, ok := x.pending[correlation]
	if !ok || pending.signalled {
		return
	}
	pending.signalled = true
	close(pending.signal)
}
