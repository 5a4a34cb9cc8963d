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

// Package actor hosts concurrent processes exchanging messages over an
// unreliable in-memory link.
//
// A System is the registry of live processes. It routes every message,
// consults its fault injector before delivery, and tells when the whole
// run has quiesced. A Process runs a Program and offers it reliable
// messaging on top of the lossy link: acknowledged sends with retry,
// duplicate suppression and heartbeat based failure detection with
// automatic revival of silent peers.
package actor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/eventstream"
	"github.com/tochemey/faultsim/fault"
	"github.com/tochemey/faultsim/internal/metric"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

// System is the registry of live processes.
type System struct {
	mu        sync.RWMutex
	processes map[address.ID]*Process
	// emptyCh is non nil exactly when processes is not empty. It is closed
	// when the last process leaves.
	emptyCh chan struct{}
	spawned bool
	stopped bool

	runID     string
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	logger            log.Logger
	retryInterval     time.Duration
	pollInterval      time.Duration
	heartbeatInterval time.Duration
	heartbeatTimeout  time.Duration
	inboxCapacity     int
	codec             message.Codec
	meterProvider     otelmetric.MeterProvider
	faultOptions      []fault.Option

	injector     *fault.Injector
	runCtx       *RunContext
	eventsStream eventstream.Stream

	spawns          *atomic.Int64
	epochs          *atomic.Uint64
	revivals        *atomic.Int64
	revivalFailures *atomic.Int64
	kills           *atomic.Int64
	overflows       *atomic.Int64
	retransmissions *atomic.Int64
	fatalErrors     *atomic.Int64
}

// NewSystem creates a System. Faults are disabled until ConfigureFaults is called.
func NewSystem(opts ...Option) (*System, error) {
	ctx, cancel := context.WithCancel(context.Background())
	system := &System{
		processes:         make(map[address.ID]*Process),
		runID:             uuid.NewString(),
		startedAt:         time.Now(),
		ctx:               ctx,
		cancel:            cancel,
		logger:            log.DefaultLogger,
		retryInterval:     DefaultRetryInterval,
		pollInterval:      DefaultPollInterval,
		heartbeatInterval: DefaultHeartbeatInterval,
		inboxCapacity:     DefaultInboxCapacity,
		runCtx:            newRunContext(),
		eventsStream:      eventstream.New(),
		spawns:            atomic.NewInt64(0),
		epochs:            atomic.NewUint64(0),
		revivals:          atomic.NewInt64(0),
		revivalFailures:   atomic.NewInt64(0),
		kills:             atomic.NewInt64(0),
		overflows:         atomic.NewInt64(0),
		retransmissions:   atomic.NewInt64(0),
		fatalErrors:       atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := system.validate(); err != nil {
		cancel()
		return nil, err
	}

	if system.heartbeatTimeout <= 0 {
		system.heartbeatTimeout = DefaultHeartbeatTimeoutFactor * system.heartbeatInterval
	}

	system.injector = system.newInjector()

	if system.meterProvider != nil {
		if err := system.registerMetrics(); err != nil {
			cancel()
			return nil, err
		}
	}

	return system, nil
}

// ConfigureFaults sets the unreliability of the run: every transmission is
// dropped with dropProbability and, when maxKills is positive or
// fault.Unbounded, a random process is killed every killInterval up to
// maxKills times. It must be called before the first spawn.
func (x *System) ConfigureFaults(dropProbability float64, maxKills int, killInterval time.Duration) error {
	if err := fault.Validate(dropProbability, maxKills, killInterval); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.stopped {
		return gerrors.ErrSystemStopped
	}

	if x.spawned {
		return gerrors.ErrFaultsLocked
	}

	x.injector = x.newInjector(
		fault.WithDropProbability(dropProbability),
		fault.WithKills(maxKills, killInterval),
	)

	x.logger.Infof("faults configured: dropProbability=(%v) maxKills=(%d) killInterval=(%s)",
		dropProbability, maxKills, killInterval)
	return nil
}

// Run stores input in the run context and spawns the initial programs
// concurrently. It returns the first spawn error.
func (x *System) Run(ctx context.Context, input any, programs map[address.ID]Factory) error {
	x.runCtx.setInput(input)

	eg, ctx := errgroup.WithContext(ctx)
	for id, factory := range programs {
		eg.Go(func() error {
			_, err := x.Spawn(ctx, id, factory, NoStartup)
			return err
		})
	}
	return eg.Wait()
}

// Spawn creates a process running the program built by factory and
// registers it under id. The process starts at once on its own goroutines.
// It fails with errors.ErrDuplicateID when id belongs to a live process.
func (x *System) Spawn(ctx context.Context, id address.ID, factory Factory, startup Startup) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if factory == nil {
		return nil, gerrors.ErrInvalidFactory
	}

	program := factory()
	if program == nil {
		return nil, gerrors.ErrInvalidFactory
	}

	x.mu.Lock()
	if x.stopped {
		x.mu.Unlock()
		return nil, gerrors.ErrSystemStopped
	}

	if _, ok := x.processes[id]; ok {
		x.mu.Unlock()
		return nil, gerrors.NewErrDuplicateID(id.Int())
	}

	if !x.spawned {
		x.spawned = true
		if err := x.injector.Start(x.ctx, faultTarget{x}); err != nil {
			x.spawned = false
			x.mu.Unlock()
			return nil, err
		}
	}

	proc := newProcess(x, id, program, startup, x.epochs.Inc())
	x.processes[id] = proc
	if x.emptyCh == nil {
		x.emptyCh = make(chan struct{})
	}
	x.wg.Add(2)
	x.mu.Unlock()

	proc.start()

	x.spawns.Inc()
	x.eventsStream.Publish(eventsTopic, &ProcessSpawned{id: id, spawnedAt: time.Now()})
	x.logger.Debugf("process=(%d) spawned", id)
	return proc, nil
}

// Route hands msg to the process registered under target. The fault
// injector is consulted first and a dropped message vanishes. A message for
// an unknown target is silently discarded. Route never blocks.
func (x *System) Route(target address.ID, msg message.Message) {
	x.route(target, msg, nil)
}

// route is Route with an optional frame already produced by the wire codec
// for msg. A nil frame is encoded on the way when a codec is configured.
func (x *System) route(target address.ID, msg message.Message, frame []byte) {
	x.mu.RLock()
	injector := x.injector
	x.mu.RUnlock()

	if injector.ShouldDrop(target, msg) {
		x.logger.Debugf("message from process=(%d) to process=(%d) dropped", source(msg), target)
		return
	}

	x.mu.RLock()
	proc, ok := x.processes[target]
	x.mu.RUnlock()
	if !ok {
		return
	}

	var envelope any = msg
	if x.codec != nil {
		if frame == nil {
			data, err := x.codec.Encode(msg)
			if err != nil {
				x.logger.Errorf("failed to encode message to process=(%d): %v", target, err)
				return
			}
			frame = data
		}
		envelope = frame
	}

	if !proc.deliver(envelope) {
		x.overflows.Inc()
		x.logger.Debugf("inbox of process=(%d) refused a message", target)
	}
}

// encode returns the wire frame of msg, or nil when no codec is configured.
func (x *System) encode(msg message.Message) ([]byte, error) {
	if x.codec == nil {
		return nil, nil
	}
	return x.codec.Encode(msg)
}

// WaitForCompletion blocks until no process is registered anymore, then
// returns the run output together with the fatal errors recorded during the
// run. It returns at once when nothing is running.
func (x *System) WaitForCompletion(ctx context.Context) (any, error) {
	x.mu.RLock()
	emptyCh := x.emptyCh
	x.mu.RUnlock()

	if emptyCh != nil {
		select {
		case <-emptyCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	x.logger.Info("system completed")
	return x.runCtx.Output(), x.runCtx.Err()
}

// Kill force-terminates the process registered under id.
func (x *System) Kill(ctx context.Context, id address.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !x.killProcess(id) {
		return gerrors.NewErrProcessNotFound(id.Int())
	}
	return nil
}

// Stop stops the fault injector, terminates every process and waits for
// all of their goroutines within ctx.
func (x *System) Stop(ctx context.Context) error {
	x.mu.Lock()
	if x.stopped {
		x.mu.Unlock()
		return nil
	}
	x.stopped = true
	procs := make([]*Process, 0, len(x.processes))
	for _, proc := range x.processes {
		procs = append(procs, proc)
	}
	x.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
		defer cancel()
	}

	x.injector.Stop(ctx)

	for _, proc := range procs {
		proc.shutdown(Stopped)
	}
	x.cancel()

	done := make(chan struct{})
	go func() {
		x.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	x.eventsStream.Close()
	x.logger.Infof("system run=(%s) stopped", x.runID)
	return nil
}

// ActorsCount returns the number of live processes.
func (x *System) ActorsCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.processes)
}

// Processes returns the ids of the live processes in ascending order.
func (x *System) Processes() []address.ID {
	x.mu.RLock()
	ids := make([]address.ID, 0, len(x.processes))
	for id := range x.processes {
		ids = append(ids, id)
	}
	x.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Process returns the live process registered under id.
func (x *System) Process(id address.ID) (*Process, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	proc, ok := x.processes[id]
	return proc, ok
}

// RunContext returns the state shared by the processes of the system.
func (x *System) RunContext() *RunContext {
	return x.runCtx
}

// RunID returns the unique id of this system instance.
func (x *System) RunID() string {
	return x.runID
}

// Logger returns the system logger.
func (x *System) Logger() log.Logger {
	return x.logger
}

// Uptime returns the number of seconds since the system was created.
func (x *System) Uptime() int64 {
	return int64(time.Since(x.startedAt).Seconds())
}

// Metric returns a snapshot of the system counters.
func (x *System) Metric() *Metric {
	x.mu.RLock()
	injector := x.injector
	x.mu.RUnlock()

	return &Metric{
		processesCount:  int64(x.ActorsCount()),
		spawns:          x.spawns.Load(),
		revivals:        x.revivals.Load(),
		revivalFailures: x.revivalFailures.Load(),
		kills:           x.kills.Load(),
		drops:           injector.Drops() + x.overflows.Load(),
		retransmissions: x.retransmissions.Load(),
		fatalErrors:     x.fatalErrors.Load(),
		uptime:          x.Uptime(),
	}
}

// Subscribe creates a subscriber to the lifecycle events of the system.
func (x *System) Subscribe() (eventstream.Subscriber, error) {
	x.mu.RLock()
	stopped := x.stopped
	x.mu.RUnlock()
	if stopped {
		return nil, gerrors.ErrSystemStopped
	}

	subscriber := x.eventsStream.AddSubscriber()
	x.eventsStream.Subscribe(subscriber, eventsTopic)
	return subscriber, nil
}

// Unsubscribe removes a subscriber created by Subscribe.
func (x *System) Unsubscribe(subscriber eventstream.Subscriber) error {
	if subscriber == nil {
		return errors.New("subscriber is nil")
	}
	x.eventsStream.RemoveSubscriber(subscriber)
	return nil
}

// deregister removes proc from the registry unless a newer process already
// owns its id. The completion channel is closed when the registry empties.
func (x *System) deregister(proc *Process) {
	x.mu.Lock()
	defer x.mu.Unlock()

	current, ok := x.processes[proc.id]
	if !ok || current != proc {
		return
	}

	delete(x.processes, proc.id)
	if len(x.processes) == 0 && x.emptyCh != nil {
		close(x.emptyCh)
		x.emptyCh = nil
	}
}

func (x *System) killProcess(id address.ID) bool {
	x.mu.RLock()
	proc, ok := x.processes[id]
	x.mu.RUnlock()

	if !ok || !proc.shutdown(Killed) {
		return false
	}

	x.kills.Inc()
	return true
}

func (x *System) recordFatal(id address.ID, err error) {
	x.fatalErrors.Inc()
	x.runCtx.recordError(err)
	x.eventsStream.Publish(eventsTopic, &FatalError{id: id, err: err})
	x.logger.Errorf("process=(%d) fatal error: %v", id, err)
}

func (x *System) newInjector(opts ...fault.Option) *fault.Injector {
	options := make([]fault.Option, 0, len(x.faultOptions)+len(opts)+1)
	options = append(options, fault.WithLogger(x.logger))
	options = append(options, opts...)
	options = append(options, x.faultOptions...)
	return fault.NewInjector(options...)
}

func (x *System) validate() error {
	switch {
	case x.logger == nil:
		return errors.New("logger is required")
	case x.retryInterval <= 0:
		return errors.New("retry interval must be greater than zero")
	case x.pollInterval <= 0:
		return errors.New("poll interval must be greater than zero")
	case x.heartbeatInterval <= 0:
		return errors.New("heartbeat interval must be greater than zero")
	case x.inboxCapacity <= 0:
		return errors.New("inbox capacity must be greater than zero")
	default:
		return nil
	}
}

func (x *System) registerMetrics() error {
	meter := metric.New(metric.WithMeterProvider(x.meterProvider)).Meter()
	metrics, err := metric.NewSystemMetric(meter)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		snapshot := x.Metric()
		observer.ObserveInt64(metrics.ProcessesCount(), snapshot.ProcessesCount())
		observer.ObserveInt64(metrics.SpawnsCount(), snapshot.Spawns())
		observer.ObserveInt64(metrics.RevivalsCount(), snapshot.Revivals())
		observer.ObserveInt64(metrics.RevivalFailuresCount(), snapshot.RevivalFailures())
		observer.ObserveInt64(metrics.KillsCount(), snapshot.Kills())
		observer.ObserveInt64(metrics.DropsCount(), snapshot.Drops())
		observer.ObserveInt64(metrics.RetransmissionsCount(), snapshot.Retransmissions())
		observer.ObserveInt64(metrics.FatalErrorsCount(), snapshot.FatalErrors())
		observer.ObserveInt64(metrics.Uptime(), snapshot.Uptime())
		return nil
	}, metrics.Observables()...)
	return err
}

// faultTarget exposes the registry to the kill loop of the fault injector.
type faultTarget struct {
	system *System
}

var _ fault.Target = faultTarget{}

func (t faultTarget) Candidates() []address.ID {
	return t.system.Processes()
}

func (t faultTarget) Kill(id address.ID) bool {
	return t.system.killProcess(id)
}

func source(msg message.Message) address.ID {
	if msg == nil {
		return address.NoSender
	}
	return msg.Source()
}
