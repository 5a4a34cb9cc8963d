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

// Package fault simulates an unreliable environment: messages in flight are
// dropped and processes are killed at random.
package fault

import (
	"context"
	"sync"
	"time"

	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

// Unbounded lets the kill loop run until the injector is stopped.
const Unbounded = -1

const killJobKey = "fault-kill-loop"

// Target is the population the kill loop picks its victims from.
type Target interface {
	// Candidates returns the ids of the processes that can be killed.
	Candidates() []address.ID
	// Kill force-terminates the process. It reports false when the process
	// was already gone.
	Kill(id address.ID) bool
}

// Validate checks a fault configuration.
func Validate(dropProbability float64, maxKills int, killInterval time.Duration) error {
	if dropProbability < 0 || dropProbability > 1 {
		return gerrors.NewErrInvalidDropProbability(dropProbability)
	}
	if killsEnabled(maxKills) && killInterval <= 0 {
		return gerrors.ErrInvalidKillInterval
	}
	return nil
}

func killsEnabled(maxKills int) bool {
	return maxKills > 0 || maxKills == Unbounded
}

// Injector decides which messages are dropped and periodically kills
// processes of its Target.
type Injector struct {
	mu sync.Mutex

	logger       log.Logger
	probability  float64
	policy       DropPolicy
	limiter      *rate.Limiter
	maxKills     int
	killInterval time.Duration
	seed         *uint64

	random    *source
	scheduler quartz.Scheduler
	started   *atomic.Bool
	kills     *atomic.Int64
	drops     *atomic.Int64
	killMu    sync.Mutex
}

// NewInjector creates an Injector. Without options it never drops and never kills.
func NewInjector(opts ...Option) *Injector {
	injector := &Injector{
		logger:  log.DiscardLogger,
		started: atomic.NewBool(false),
		kills:   atomic.NewInt64(0),
		drops:   atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt(injector)
	}

	injector.random = newSource(injector.seed)
	if injector.policy == nil {
		injector.policy = &probabilistic{probability: injector.probability, random: injector.random}
	}
	return injector
}

// ShouldDrop reports whether the transmission of msg to target is lost.
func (x *Injector) ShouldDrop(target address.ID, msg message.Message) bool {
	if x.limiter != nil && !x.limiter.Allow() {
		x.drops.Inc()
		return true
	}
	if x.policy.ShouldDrop(target, msg) {
		x.drops.Inc()
		return true
	}
	return false
}

// Start starts the kill loop against target when kills are enabled.
func (x *Injector) Start(ctx context.Context, target Target) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() || !killsEnabled(x.maxKills) {
		return nil
	}

	if err := Validate(x.probability, x.maxKills, x.killInterval); err != nil {
		return err
	}

	scheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return err
	}

	killJob := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			return x.killOne(target), nil
		},
	)

	scheduler.Start(ctx)
	detail := quartz.NewJobDetail(killJob, quartz.NewJobKey(killJobKey))
	if err := scheduler.ScheduleJob(detail, quartz.NewSimpleTrigger(x.killInterval)); err != nil {
		scheduler.Stop()
		scheduler.Wait(ctx)
		return err
	}

	x.scheduler = scheduler
	x.started.Store(true)
	x.logger.Infof("fault injector started: maxKills=(%d) interval=(%s)", x.maxKills, x.killInterval)
	return nil
}

// Stop stops the kill loop and waits for it within ctx.
func (x *Injector) Stop(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return
	}

	_ = x.scheduler.Clear()
	x.scheduler.Stop()
	x.scheduler.Wait(ctx)
	x.started.Store(false)
	x.logger.Infof("fault injector stopped after kills=(%d)", x.kills.Load())
}

// Kills returns the number of processes killed so far.
func (x *Injector) Kills() int64 {
	return x.kills.Load()
}

// Drops returns the number of messages dropped so far.
func (x *Injector) Drops() int64 {
	return x.drops.Load()
}

// killOne kills a uniformly chosen candidate. A firing that finds no
// candidate or exceeds the budget does not count.
func (x *Injector) killOne(target Target) bool {
	x.killMu.Lock()
	defer x.killMu.Unlock()

	if x.maxKills != Unbounded && x.kills.Load() >= int64(x.maxKills) {
		return false
	}

	candidates := target.Candidates()
	if len(candidates) == 0 {
		return false
	}

	victim := candidates[x.random.intN(len(candidates))]
	if !target.Kill(victim) {
		return false
	}

	count := x.kills.Inc()
	x.logger.Infof("fault injector killed process=(%d) kills=(%d)", victim, count)
	return true
}
