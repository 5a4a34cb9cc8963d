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

package fault

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/tochemey/faultsim/log"
)

// Option configures an Injector.
type Option func(injector *Injector)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(injector *Injector) {
		injector.logger = logger
	}
}

// WithDropProbability drops every transmission independently with the
// given probability.
func WithDropProbability(probability float64) Option {
	return func(injector *Injector) {
		injector.probability = probability
	}
}

// WithDropPolicy replaces the probabilistic drop decision.
func WithDropPolicy(policy DropPolicy) Option {
	return func(injector *Injector) {
		injector.policy = policy
	}
}

// WithKills enables the kill loop: every interval a random registered
// process is killed, up to maxKills kills. Use Unbounded for no limit.
func WithKills(maxKills int, interval time.Duration) Option {
	return func(injector *Injector) {
		injector.maxKills = maxKills
		injector.killInterval = interval
	}
}

// WithSeed makes every random decision of the injector reproducible.
func WithSeed(seed uint64) Option {
	return func(injector *Injector) {
		injector.seed = &seed
	}
}

// WithLinkRate caps the shared link at limit messages per second with the
// given burst. Messages over the cap are dropped.
func WithLinkRate(limit rate.Limit, burst int) Option {
	return func(injector *Injector) {
		injector.limiter = rate.NewLimiter(limit, burst)
	}
}
