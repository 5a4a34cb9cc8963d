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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when spawning a process whose id is already
	// registered by a live process.
	ErrDuplicateID = errors.New("process id already in use")

	// ErrUnknownMessageKind is a protocol violation: the inbound loop met a
	// message that is neither regular, heartbeat nor acknowledgement.
	ErrUnknownMessageKind = errors.New("unknown message kind")

	// ErrProtocolDecode is returned when a wire frame cannot be decoded.
	ErrProtocolDecode = errors.New("failed to decode message")

	// ErrProtocolEncode is returned when a message cannot be represented on
	// the wire without altering it.
	ErrProtocolEncode = errors.New("failed to encode message")

	// ErrSelfTerminated is returned to a blocking call made by a process that
	// has been completed or killed in the meantime.
	ErrSelfTerminated = errors.New("process is no longer alive")

	// ErrFaultsLocked is returned when faults are configured after the first spawn.
	ErrFaultsLocked = errors.New("faults must be configured before the first spawn")

	// ErrInvalidDropProbability is returned when the drop probability is outside [0, 1].
	ErrInvalidDropProbability = errors.New("drop probability must be within [0, 1]")

	// ErrInvalidKillInterval is returned when the kill loop is enabled with a non-positive interval.
	ErrInvalidKillInterval = errors.New("kill interval must be greater than zero")

	// ErrSystemStopped is returned by operations attempted after the system has been stopped.
	ErrSystemStopped = errors.New("system is stopped")

	// ErrProgramPanic is recorded when a program panics while running.
	ErrProgramPanic = errors.New("program panicked")

	// ErrProcessNotFound is returned when no live process is registered under an id.
	ErrProcessNotFound = errors.New("process not found")

	// ErrInvalidFactory is returned when spawning with a nil factory or a
	// factory producing a nil program.
	ErrInvalidFactory = errors.New("invalid program factory")
)

// NewErrDuplicateID formats an ErrDuplicateID with the given process id.
func NewErrDuplicateID(id int) error {
	return fmt.Errorf("process=(%d) %w", id, ErrDuplicateID)
}

// NewErrUnknownMessageKind formats an ErrUnknownMessageKind with the offending value.
func NewErrUnknownMessageKind(id int, message any) error {
	return fmt.Errorf("process=(%d) received %T: %w", id, message, ErrUnknownMessageKind)
}

// NewErrProtocolDecode wraps a decoding failure with ErrProtocolDecode.
func NewErrProtocolDecode(err error) error {
	return errors.Join(ErrProtocolDecode, err)
}

// NewErrProtocolEncode wraps an encoding failure with ErrProtocolEncode.
func NewErrProtocolEncode(err error) error {
	return errors.Join(ErrProtocolEncode, err)
}

// NewErrProcessNotFound formats an ErrProcessNotFound with the given process id.
func NewErrProcessNotFound(id int) error {
	return fmt.Errorf("process=(%d) %w", id, ErrProcessNotFound)
}

// NewErrSelfTerminated formats an ErrSelfTerminated with the given process id.
func NewErrSelfTerminated(id int) error {
	return fmt.Errorf("process=(%d) %w", id, ErrSelfTerminated)
}

// NewErrInvalidDropProbability formats an ErrInvalidDropProbability with the given value.
func NewErrInvalidDropProbability(probability float64) error {
	return fmt.Errorf("probability=(%v) %w", probability, ErrInvalidDropProbability)
}

// NewErrProgramPanic formats an ErrProgramPanic with the recovered value.
func NewErrProgramPanic(id int, recovered any) error {
	if err, ok := recovered.(error); ok {
		return fmt.Errorf("process=(%d) %w: %w", id, ErrProgramPanic, err)
	}
	return fmt.Errorf("process=(%d) %w: %v", id, ErrProgramPanic, recovered)
}
