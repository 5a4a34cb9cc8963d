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
	"sync"

	"go.uber.org/multierr"

	"github.com/tochemey/faultsim/internal/xsync"
)

// RunContext is the state shared by every process of a system: the input
// of the run, its single output slot, a free form key-value store and the
// fatal errors observed so far.
type RunContext struct {
	mu     sync.RWMutex
	input  any
	output any
	shared *xsync.Map[string, any]

	errMu sync.Mutex
	err   error
}

func newRunContext() *RunContext {
	return &RunContext{
		shared: xsync.NewMap[string, any](),
	}
}

// Input returns the input given to System.Run.
func (r *RunContext) Input() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.input
}

// Output returns the current output.
func (r *RunContext) Output() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.output
}

// Load returns the shared value stored under key.
func (r *RunContext) Load(key string) (any, bool) {
	return r.shared.Get(key)
}

// Store stores a shared value under key.
func (r *RunContext) Store(key string, value any) {
	r.shared.Set(key, value)
}

// LoadOrStore returns the shared value under key when present, otherwise it
// stores value. loaded reports whether the value was present.
func (r *RunContext) LoadOrStore(key string, value any) (actual any, loaded bool) {
	return r.shared.GetOrSet(key, value)
}

// Err returns the fatal errors recorded so far combined into one, or nil.
func (r *RunContext) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// Errors returns the fatal errors recorded so far.
func (r *RunContext) Errors() []error {
	return multierr.Errors(r.Err())
}

func (r *RunContext) setInput(input any) {
	r.mu.Lock()
	r.input = input
	r.mu.Unlock()
}

func (r *RunContext) setOutput(output any) {
	r.mu.Lock()
	r.output = output
	r.mu.Unlock()
}

func (r *RunContext) recordError(err error) {
	r.errMu.Lock()
	r.err = multierr.Append(r.err, err)
	r.errMu.Unlock()
}
