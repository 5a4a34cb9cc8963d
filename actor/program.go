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

import "context"

// Program is the user code run by a process.
//
// Start runs on the process's own goroutine. ctx is cancelled as soon as the
// process dies, whether it completed or was killed. When Start returns the
// process completes gracefully, unless it is already dead. A non nil error
// returned while the process is still alive is recorded as a fatal error and
// the process is terminated as crashed. A panic is handled the same way.
type Program interface {
	Start(ctx context.Context, proc *Process, startup Startup) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(ctx context.Context, proc *Process, startup Startup) error

// Start calls f.
func (f ProgramFunc) Start(ctx context.Context, proc *Process, startup Startup) error {
	return f(ctx, proc, startup)
}

// Factory creates a fresh Program for every spawn, revivals included.
type Factory func() Program

// FactoryOf returns a Factory creating fn.
func FactoryOf(fn ProgramFunc) Factory {
	return func() Program {
		return fn
	}
}

// Startup is the optional payload handed to a program when its process
// starts. A revived process receives the same Startup as the original.
type Startup struct {
	payload string
	set     bool
}

// NoStartup is the empty Startup.
var NoStartup = Startup{}

// StartupWith creates a Startup carrying payload.
func StartupWith(payload string) Startup {
	return Startup{payload: payload, set: true}
}

// Payload returns the startup payload and whether one was given.
func (s Startup) Payload() (string, bool) {
	return s.payload, s.set
}
