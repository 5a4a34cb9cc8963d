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

// Package testkit helps writing tests against the actor runtime: a system
// with short timings, scripted drop policies and a probe asserting
// lifecycle events.
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/address"
	"github.com/tochemey/faultsim/log"
)

const (
	retryInterval     = 20 * time.Millisecond
	pollInterval      = 10 * time.Millisecond
	heartbeatInterval = 50 * time.Millisecond
)

// TestKit defines the actor test kit
type TestKit struct {
	system  *actor.System
	kt      *testing.T
	logger  log.Logger
	options []actor.Option
}

// New creates a TestKit whose system ticks fast enough for unit tests.
func New(t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	defaults := []actor.Option{
		actor.WithLogger(testkit.logger),
		actor.WithRetryInterval(retryInterval),
		actor.WithPollInterval(pollInterval),
		actor.WithHeartbeatInterval(heartbeatInterval),
	}

	system, err := actor.NewSystem(append(defaults, testkit.options...)...)
	if err != nil {
		t.Fatal(err.Error())
	}

	testkit.system = system
	return testkit
}

// System returns the system under test
func (k *TestKit) System() *actor.System {
	return k.system
}

// ConfigureFaults configures the fault injector of the system
func (k *TestKit) ConfigureFaults(dropProbability float64, maxKills int, killInterval time.Duration) {
	if err := k.system.ConfigureFaults(dropProbability, maxKills, killInterval); err != nil {
		k.kt.Fatal(err.Error())
	}
}

// Spawn creates a process without startup payload
func (k *TestKit) Spawn(ctx context.Context, id address.ID, factory actor.Factory) *actor.Process {
	return k.SpawnWith(ctx, id, factory, actor.NoStartup)
}

// SpawnWith creates a process with the given startup payload
func (k *TestKit) SpawnWith(ctx context.Context, id address.ID, factory actor.Factory, startup actor.Startup) *actor.Process {
	proc, err := k.system.Spawn(ctx, id, factory, startup)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return proc
}

// NewProbe creates a probe observing the lifecycle events of the system
func (k *TestKit) NewProbe() *Probe {
	probe, err := newProbe(k.kt, k.system)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return probe
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.system.Stop(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
