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

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/tochemey/faultsim/fault"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *System)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*System)

// Apply applies the option to the system.
func (f OptionFunc) Apply(sys *System) {
	f(sys)
}

// WithLogger sets the system logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(sys *System) {
		sys.logger = logger
	})
}

// WithRetryInterval sets how long SendReliable waits for an ack before resending.
func WithRetryInterval(interval time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.retryInterval = interval
	})
}

// WithPollInterval sets the upper bound of every inbox wait.
func WithPollInterval(interval time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.pollInterval = interval
	})
}

// WithHeartbeatInterval sets the default period of heartbeat senders.
func WithHeartbeatInterval(interval time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.heartbeatInterval = interval
	})
}

// WithHeartbeatTimeout sets the default timeout of heartbeat monitors.
// It defaults to DefaultHeartbeatTimeoutFactor heartbeat intervals.
func WithHeartbeatTimeout(timeout time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.heartbeatTimeout = timeout
	})
}

// WithInboxCapacity sets the capacity of the general inbox of every process.
// A message arriving at a full inbox is lost like a dropped one.
func WithInboxCapacity(capacity int) Option {
	return OptionFunc(func(sys *System) {
		sys.inboxCapacity = capacity
	})
}

// WithWireCodec makes every routed message cross a serialization boundary:
// it is encoded by the router and decoded by the receiving process.
func WithWireCodec(codec message.Codec) Option {
	return OptionFunc(func(sys *System) {
		sys.codec = codec
	})
}

// WithMetrics exports the system instruments through the given meter provider.
func WithMetrics(provider metric.MeterProvider) Option {
	return OptionFunc(func(sys *System) {
		sys.meterProvider = provider
	})
}

// WithRandSeed makes every random decision of the fault injector reproducible.
func WithRandSeed(seed uint64) Option {
	return OptionFunc(func(sys *System) {
		sys.faultOptions = append(sys.faultOptions, fault.WithSeed(seed))
	})
}

// WithDropPolicy replaces the probabilistic drop decision of the fault injector.
func WithDropPolicy(policy fault.DropPolicy) Option {
	return OptionFunc(func(sys *System) {
		sys.faultOptions = append(sys.faultOptions, fault.WithDropPolicy(policy))
	})
}

// WithLinkRate caps the in-memory link at limit messages per second with the
// given burst. Messages over the cap are dropped.
func WithLinkRate(limit rate.Limit, burst int) Option {
	return OptionFunc(func(sys *System) {
		sys.faultOptions = append(sys.faultOptions, fault.WithLinkRate(limit, burst))
	})
}

// SendOption configures a single SendReliable call.
type SendOption func(*sendConfig)

type sendConfig struct {
	retryInterval time.Duration
}

// WithAckTimeout overrides the system retry interval for one call.
func WithAckTimeout(timeout time.Duration) SendOption {
	return func(config *sendConfig) {
		if timeout > 0 {
			config.retryInterval = timeout
		}
	}
}

// HeartbeatOption configures a heartbeat sender or monitor.
type HeartbeatOption func(*heartbeatConfig)

type heartbeatConfig struct {
	interval time.Duration
	timeout  time.Duration
}

// WithBeatInterval overrides the period of a heartbeat sender.
func WithBeatInterval(interval time.Duration) HeartbeatOption {
	return func(config *heartbeatConfig) {
		if interval > 0 {
			config.interval = interval
		}
	}
}

// WithMonitorTimeout overrides the timeout of a heartbeat monitor.
func WithMonitorTimeout(timeout time.Duration) HeartbeatOption {
	return func(config *heartbeatConfig) {
		if timeout > 0 {
			config.timeout = timeout
		}
	}
}
