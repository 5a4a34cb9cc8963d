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

	gods "github.com/Workiva/go-datastructures/queue"
	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/internal/xsync"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

// dedupKey identifies a regular message across its retransmissions.
type dedupKey struct {
	source      address.ID
	correlation uint64
}

// watchKey identifies one heartbeat monitor of a process. A process may
// monitor the same peer more than once.
type watchKey struct {
	peer   address.ID
	serial uint64
}

// pendingAck tracks a SendReliable call waiting for its acknowledgement.
type pendingAck struct {
	signal    chan struct{}
	signalled bool
}

// Process is a live participant of a System. Its inbound loop drains the
// general inbox: acks release pending sends, heartbeats feed the monitors
// and regular messages are acknowledged, deduplicated and queued on the
// focused inbox read by the program through Receive.
type Process struct {
	id      address.ID
	system  *System
	program Program
	startup Startup
	logger  log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	alive    *atomic.Bool
	reason   *atomic.Int32
	shutOnce sync.Once

	inbox   *inbox
	focused *gods.Queue

	correlation *atomic.Uint64
	pendingMu   sync.Mutex
	pending     map[uint64]*pendingAck
	seen        goset.Set[dedupKey]
	watches     *xsync.Map[watchKey, *watch]
	monitors    *atomic.Uint64

	spawnedAt time.Time
}

// newProcess creates the process instance spawned at epoch. Its correlation
// ids start right above epoch<<correlationEpochShift.
func newProcess(system *System, id address.ID, program Program, startup Startup, epoch uint64) *Process {
	ctx, cancel := context.WithCancel(system.ctx)
	return &Process{
		id:          id,
		system:      system,
		program:     program,
		startup:     startup,
		logger:      system.logger,
		ctx:         ctx,
		cancel:      cancel,
		alive:       atomic.NewBool(true),
		reason:      atomic.NewInt32(int32(Completed)),
		inbox:       newInbox(system.inboxCapacity),
		focused:     gods.New(int64(system.inboxCapacity)),
		correlation: atomic.NewUint64(epoch << correlationEpochShift),
		pending:     make(map[uint64]*pendingAck),
		seen:        goset.NewSet[dedupKey](),
		watches:     xsync.NewMap[watchKey, *watch](),
		monitors:    atomic.NewUint64(0),
		spawnedAt:   time.Now(),
	}
}

// ID returns the process id.
func (x *Process) ID() address.ID {
	return x.id
}

// Alive reports whether the process is still running.
func (x *Process) Alive() bool {
	return x.alive.Load()
}

// Context returns a context cancelled when the process dies.
func (x *Process) Context() context.Context {
	return x.ctx
}

// Startup returns the startup payload the process was spawned with.
func (x *Process) Startup() Startup {
	return x.startup
}

// System returns the system hosting the process.
func (x *Process) System() *System {
	return x.system
}

// Logger returns the logger of the process.
func (x *Process) Logger() log.Logger {
	return x.logger
}

// Input returns the input of the run.
func (x *Process) Input() any {
	return x.system.runCtx.Input()
}

// SetOutput sets the output of the run. A dead process cannot write it.
func (x *Process) SetOutput(output any) error {
	if !x.alive.Load() {
		return gerrors.NewErrSelfTerminated(x.id.Int())
	}
	x.system.runCtx.setOutput(output)
	return nil
}

// Shared returns the state shared by every process of the run.
func (x *Process) Shared() *RunContext {
	return x.system.runCtx
}

// Spawn creates a new process in the same system.
func (x *Process) Spawn(ctx context.Context, id address.ID, factory Factory, startup Startup) (*Process, error) {
	if !x.alive.Load() {
		return nil, gerrors.NewErrSelfTerminated(x.id.Int())
	}
	return x.system.Spawn(ctx, id, factory, startup)
}

// Complete terminates the process gracefully. Heartbeat senders of the
// process announce the completion to their peers. Calling Complete on a
// dead process is a no-op.
func (x *Process) Complete() {
	x.shutdown(Completed)
}

// Receive returns the next regular message addressed to the program. Each
// payload is returned at most once per sender and correlation id. It fails
// with errors.ErrSelfTerminated once the process is dead.
func (x *Process) Receive(ctx context.Context) (*message.Regular, error) {
	for {
		if !x.alive.Load() {
			return nil, gerrors.NewErrSelfTerminated(x.id.Int())
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wait := x.system.pollInterval
		if deadline, ok := ctx.Deadline(); ok {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, context.DeadlineExceeded
			}
			wait = min(wait, remaining)
		}

		items, err := x.focused.Poll(1, wait)
		if err == nil && len(items) > 0 {
			return items[0].(*message.Regular), nil
		}

		if errors.Is(err, gods.ErrDisposed) {
			return nil, gerrors.NewErrSelfTerminated(x.id.Int())
		}
	}
}

// ReceiveWithin is Receive bounded by timeout. It returns
// context.DeadlineExceeded when nothing arrived in time.
func (x *Process) ReceiveWithin(timeout time.Duration) (*message.Regular, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return x.Receive(ctx)
}

func (x *Process) start() {
	go x.receiveLoop()
	go x.run()
}

// run executes the program and completes the process when it returns.
func (x *Process) run() {
	defer x.system.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			x.fail(gerrors.NewErrProgramPanic(x.id.Int(), r))
		}
	}()

	x.logger.Infof("process=(%d) started", x.id)
	err := x.program.Start(x.ctx, x, x.startup)
	if err != nil && x.alive.Load() {
		x.fail(err)
		return
	}
	x.Complete()
}

// receiveLoop is the single consumer of the general inbox.
func (x *Process) receiveLoop() {
	defer x.system.wg.Done()
	for {
		envelope, ok := x.inbox.Poll(x.ctx, x.system.pollInterval)
		if !x.alive.Load() {
			return
		}

		if !ok {
			continue
		}

		if err := x.handle(envelope); err != nil {
			x.fail(err)
			return
		}
	}
}

func (x *Process) handle(envelope any) error {
	msg, err := x.decode(envelope)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *message.Ack:
		x.acknowledge(m.Correlation())
	case *message.Heartbeat:
		x.observeHeartbeat(m)
	case *message.Regular:
		x.transmit(m.Source(), message.NewAck(x.id, m.Correlation()))
		if x.seen.Add(dedupKey{source: m.Source(), correlation: m.Correlation()}) {
			_ = x.focused.Put(m)
		}
	default:
		return gerrors.NewErrUnknownMessageKind(x.id.Int(), msg)
	}
	return nil
}

func (x *Process) decode(envelope any) (message.Message, error) {
	switch v := envelope.(type) {
	case []byte:
		if x.system.codec == nil {
			return nil, gerrors.NewErrProtocolDecode(errors.New("no wire codec configured"))
		}
		return x.system.codec.Decode(v)
	case message.Message:
		return v, nil
	default:
		return nil, gerrors.NewErrUnknownMessageKind(x.id.Int(), envelope)
	}
}

// deliver offers an envelope to the general inbox.
func (x *Process) deliver(envelope any) bool {
	if !x.alive.Load() {
		return true
	}
	return x.inbox.Offer(envelope)
}

// transmit routes msg from this process, dead or alive.
func (x *Process) transmit(target address.ID, msg message.Message) {
	x.system.Route(target, msg)
}

// fail records a fatal error and terminates the process as crashed.
func (x *Process) fail(err error) {
	x.system.recordFatal(x.id, err)
	x.shutdown(Crashed)
}

// shutdown terminates the process once. It reports whether this call
// performed the termination.
func (x *Process) shutdown(reason TerminationReason) bool {
	if !x.alive.CompareAndSwap(true, false) {
		return false
	}

	x.shutOnce.Do(func() {
		x.reason.Store(int32(reason))
		x.cancel()
		x.system.deregister(x)
		x.inbox.Dispose()
		x.focused.Dispose()

		if reason.premature() {
			x.logger.Infof("process=(%d) %s", x.id, reason)
		} else {
			x.logger.Infof("process=(%d) completed", x.id)
		}

		x.system.eventsStream.Publish(eventsTopic, &ProcessTerminated{
			id:           x.id,
			reason:       reason,
			terminatedAt: time.Now(),
		})
	})
	return true
}

// terminationReason returns how the process died. It is only meaningful
// once the process context is done.
func (x *Process) terminationReason() TerminationReason {
	return TerminationReason(x.reason.Load())
}
