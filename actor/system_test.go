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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/fault"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

func TestNewSystem(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		system := newTestSystem(t)
		assert.NotEmpty(t, system.RunID())
		assert.Equal(t, log.DiscardLogger, system.Logger())
		assert.Equal(t, 3*50*time.Millisecond, system.heartbeatTimeout)
		assert.Zero(t, system.ActorsCount())
		assert.Empty(t, system.Processes())
		assert.NotNil(t, system.RunContext())
	})
	t.Run("With metrics", func(t *testing.T) {
		system := newTestSystem(t, WithMetrics(noop.NewMeterProvider()))
		require.NotNil(t, system.Metric())
	})
	t.Run("With invalid options", func(t *testing.T) {
		invalid := []Option{
			WithLogger(nil),
			WithRetryInterval(0),
			WithPollInterval(-time.Second),
			WithHeartbeatInterval(0),
			WithInboxCapacity(0),
		}
		for _, opt := range invalid {
			system, err := NewSystem(opt)
			require.Error(t, err)
			assert.Nil(t, system)
		}
	})
}

func TestSpawn(t *testing.T) {
	t.Run("With happy path", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)

		proc, err := system.Spawn(ctx, 1, idle(), StartupWith("config"))
		require.NoError(t, err)
		assert.Equal(t, address.ID(1), proc.ID())
		assert.True(t, proc.Alive())
		payload, ok := proc.Startup().Payload()
		assert.True(t, ok)
		assert.Equal(t, "config", payload)
		assert.Same(t, system, proc.System())

		found, ok := system.Process(1)
		require.True(t, ok)
		assert.Same(t, proc, found)
		assert.Equal(t, []address.ID{1}, system.Processes())
		assert.EqualValues(t, 1, system.Metric().Spawns())
	})
	t.Run("With duplicate id", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)

		_, err := system.Spawn(ctx, 1, idle(), NoStartup)
		require.NoError(t, err)
		_, err = system.Spawn(ctx, 1, idle(), NoStartup)
		require.ErrorIs(t, err, gerrors.ErrDuplicateID)
		assert.Equal(t, 1, system.ActorsCount())
	})
	t.Run("With id reused after completion", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)

		proc, err := system.Spawn(ctx, 1, idle(), NoStartup)
		require.NoError(t, err)
		proc.Complete()
		assert.False(t, proc.Alive())

		_, err = system.Spawn(ctx, 1, idle(), NoStartup)
		require.NoError(t, err)
		assert.Equal(t, 1, system.ActorsCount())
	})
	t.Run("With invalid factory", func(t *testing.T) {
		system := newTestSystem(t)
		_, err := system.Spawn(context.Background(), 1, nil, NoStartup)
		require.ErrorIs(t, err, gerrors.ErrInvalidFactory)
		_, err = system.Spawn(context.Background(), 1, func() Program { return nil }, NoStartup)
		require.ErrorIs(t, err, gerrors.ErrInvalidFactory)
	})
	t.Run("With cancelled context", func(t *testing.T) {
		system := newTestSystem(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := system.Spawn(ctx, 1, idle(), NoStartup)
		require.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With stopped system", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)
		require.NoError(t, system.Stop(ctx))
		_, err := system.Spawn(ctx, 1, idle(), NoStartup)
		require.ErrorIs(t, err, gerrors.ErrSystemStopped)
		_, err = system.Subscribe()
		require.ErrorIs(t, err, gerrors.ErrSystemStopped)
		require.ErrorIs(t, system.ConfigureFaults(0, 0, 0), gerrors.ErrSystemStopped)
	})
}

func TestConfigureFaults(t *testing.T) {
	t.Run("With invalid values", func(t *testing.T) {
		system := newTestSystem(t)
		require.ErrorIs(t, system.ConfigureFaults(1.2, 0, 0), gerrors.ErrInvalidDropProbability)
		require.ErrorIs(t, system.ConfigureFaults(0, 2, 0), gerrors.ErrInvalidKillInterval)
	})
	t.Run("With faults locked after the first spawn", func(t *testing.T) {
		system := newTestSystem(t)
		require.NoError(t, system.ConfigureFaults(0.1, 0, 0))
		_, err := system.Spawn(context.Background(), 1, idle(), NoStartup)
		require.NoError(t, err)
		require.ErrorIs(t, system.ConfigureFaults(0.2, 0, 0), gerrors.ErrFaultsLocked)
	})
	t.Run("With bounded kill loop", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t, WithRandSeed(3))
		require.NoError(t, system.ConfigureFaults(0, 2, 30*time.Millisecond))

		for id := range 3 {
			_, err := system.Spawn(ctx, address.ID(id), idle(), NoStartup)
			require.NoError(t, err)
		}

		require.Eventually(t, func() bool { return system.Metric().Kills() == 2 }, 2*time.Second, 10*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
		assert.EqualValues(t, 2, system.Metric().Kills())
		assert.Equal(t, 1, system.ActorsCount())
	})
	t.Run("With certain drop", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)
		require.NoError(t, system.ConfigureFaults(1, 0, 0))

		received := make(chan struct{}, 1)
		_, err := system.Spawn(ctx, 2, FactoryOf(func(ctx context.Context, proc *Process, _ Startup) error {
			if _, err := proc.Receive(ctx); err == nil {
				received <- struct{}{}
			}
			return nil
		}), NoStartup)
		require.NoError(t, err)

		sender, err := system.Spawn(ctx, 1, idle(), NoStartup)
		require.NoError(t, err)
		require.NoError(t, sender.Send(2, "lost"))

		select {
		case <-received:
			t.Fatal("a dropped message was delivered")
		case <-time.After(100 * time.Millisecond):
		}
		assert.Positive(t, system.Metric().Drops())
	})
}

func TestWaitForCompletion(t *testing.T) {
	t.Run("With nothing spawned", func(t *testing.T) {
		system := newTestSystem(t)
		output, err := system.WaitForCompletion(context.Background())
		require.NoError(t, err)
		assert.Nil(t, output)
	})
	t.Run("With output", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)

		_, err := system.Spawn(ctx, 1, FactoryOf(func(_ context.Context, proc *Process, _ Startup) error {
			return proc.SetOutput(42)
		}), NoStartup)
		require.NoError(t, err)

		output, err := system.WaitForCompletion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, output)
		assert.Zero(t, system.ActorsCount())
	})
	t.Run("With context done first", func(t *testing.T) {
		system := newTestSystem(t)
		_, err := system.Spawn(context.Background(), 1, idle(), NoStartup)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = system.WaitForCompletion(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("With fatal errors", func(t *testing.T) {
		ctx := context.Background()
		system := newTestSystem(t)

		_, err := system.Spawn(ctx, 1, FactoryOf(func(context.Context, *Process, Startup) error {
			panic("boom")
		}), NoStartup)
		require.NoError(t, err)

		_, err = system.WaitForCompletion(ctx)
		require.ErrorIs(t, err, gerrors.ErrProgramPanic)
		assert.Len(t, system.RunContext().Errors(), 1)
		assert.EqualValues(t, 1, system.Metric().FatalErrors())
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)

	words := []string{"a", "b", "c"}
	counted := atomic.NewInt64(0)

	worker := FactoryOf(func(ctx context.Context, proc *Process, _ Startup) error {
		input := proc.Input().([]string)
		counted.Add(int64(len(input)))
		return proc.SendReliable(ctx, 0, "done")
	})

	collector := FactoryOf(func(ctx context.Context, proc *Process, _ Startup) error {
		for range 2 {
			if _, err := proc.Receive(ctx); err != nil {
				return err
			}
		}
		return proc.SetOutput(counted.Load())
	})

	err := system.Run(ctx, words, map[address.ID]Factory{0: collector, 1: worker, 2: worker})
	require.NoError(t, err)

	output, err := system.WaitForCompletion(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, output)
	assert.Equal(t, words, system.RunContext().Input())
}

func TestKill(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)
	sub, err := system.Subscribe()
	require.NoError(t, err)

	result := make(chan error, 1)
	proc, err := system.Spawn(ctx, 1, FactoryOf(func(ctx context.Context, proc *Process, _ Startup) error {
		_, err := proc.Receive(ctx)
		result <- err
		return err
	}), NoStartup)
	require.NoError(t, err)

	require.NoError(t, system.Kill(ctx, 1))
	assert.False(t, proc.Alive())
	require.ErrorIs(t, proc.Context().Err(), context.Canceled)

	select {
	case err := <-result:
		require.ErrorIs(t, err, gerrors.ErrSelfTerminated)
	case <-time.After(time.Second):
		t.Fatal("receive did not observe the kill")
	}

	event := awaitEvent(t, sub, time.Second, func(e *ProcessTerminated) bool { return e.ID() == 1 })
	assert.Equal(t, Killed, event.Reason())
	assert.EqualValues(t, 1, system.Metric().Kills())

	require.ErrorIs(t, system.Kill(ctx, 1), gerrors.ErrProcessNotFound)
	require.ErrorIs(t, proc.SetOutput("zombie"), gerrors.ErrSelfTerminated)
	_, err = proc.Spawn(ctx, 2, idle(), NoStartup)
	require.ErrorIs(t, err, gerrors.ErrSelfTerminated)
	require.NoError(t, system.Unsubscribe(sub))
	require.Error(t, system.Unsubscribe(nil))
}

func TestDeregisterKeepsNewerInstance(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)

	stale, err := system.Spawn(ctx, 1, idle(), NoStartup)
	require.NoError(t, err)
	require.NoError(t, system.Kill(ctx, 1))

	fresh, err := system.Spawn(ctx, 1, idle(), NoStartup)
	require.NoError(t, err)

	system.deregister(stale)
	found, ok := system.Process(1)
	require.True(t, ok)
	assert.Same(t, fresh, found)

	assert.False(t, stale.shutdown(Killed))
	found, ok = system.Process(1)
	require.True(t, ok)
	assert.Same(t, fresh, found)
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)

	first, err := system.Spawn(ctx, 1, idle(), NoStartup)
	require.NoError(t, err)
	second, err := system.Spawn(ctx, 2, idle(), NoStartup)
	require.NoError(t, err)

	require.NoError(t, system.Stop(ctx))
	require.NoError(t, system.Stop(ctx))

	for _, proc := range []*Process{first, second} {
		assert.False(t, proc.Alive())
		assert.Equal(t, Stopped, proc.terminationReason())
	}
	assert.Zero(t, system.ActorsCount())
	assert.Zero(t, system.Metric().Kills())
}

func TestFaultPolicyOption(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t, WithDropPolicy(fault.DropPolicyFunc(func(target address.ID, _ message.Message) bool {
		return target == 2
	})))

	received := make(chan string, 1)
	_, err := system.Spawn(ctx, 2, FactoryOf(func(ctx context.Context, proc *Process, _ Startup) error {
		msg, err := proc.Receive(ctx)
		if err == nil {
			received <- msg.Payload()
		}
		return nil
	}), NoStartup)
	require.NoError(t, err)

	sender, err := system.Spawn(ctx, 1, idle(), NoStartup)
	require.NoError(t, err)
	require.NoError(t, sender.Send(2, "never"))

	select {
	case <-received:
		t.Fatal("message for a blackholed target was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}
