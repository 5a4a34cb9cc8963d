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

// Package message defines the envelopes exchanged between processes.
//
// A Message is one of exactly three variants: Regular carries user payload
// and expects an acknowledgement, Heartbeat is a liveness signal and Ack
// acknowledges a Regular by its correlation id. The set is closed: code
// outside this package cannot add a variant, so a type switch over the three
// is exhaustive. Envelopes are immutable once built.
package message

import (
	"fmt"

	"github.com/tochemey/faultsim/address"
)

// TerminalHeartbeat is the heartbeat payload sent by a process that
// completed on purpose. A monitor observing it stops watching the sender
// instead of reviving it.
const TerminalHeartbeat = "__terminal__"

// Kind tags the variant of a Message.
type Kind int

const (
	// KindRegular is a payload carrying message that must be acknowledged.
	KindRegular Kind = iota
	// KindHeartbeat is a liveness signal.
	KindHeartbeat
	// KindAck acknowledges a regular message.
	KindAck
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindHeartbeat:
		return "heartbeat"
	case KindAck:
		return "acknowledge"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a wire name into a Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "regular":
		return KindRegular, true
	case "heartbeat":
		return KindHeartbeat, true
	case "acknowledge":
		return KindAck, true
	default:
		return 0, false
	}
}

// Message is the envelope routed between processes.
type Message interface {
	// Source returns the sender of the message.
	Source() address.ID
	// Kind returns the variant tag.
	Kind() Kind
	sealed()
}

// Regular carries a user payload. The receiver acknowledges every copy it
// gets and hands the payload to user code at most once per
// (source, correlation) pair.
type Regular struct {
	from        address.ID
	correlation uint64
	payload     string
}

var _ Message = (*Regular)(nil)

// NewRegular creates a Regular message.
func NewRegular(from address.ID, correlation uint64, payload string) *Regular {
	return &Regular{from: from, correlation: correlation, payload: payload}
}

// Source returns the sender.
func (m *Regular) Source() address.ID { return m.from }

// Kind returns KindRegular.
func (m *Regular) Kind() Kind { return KindRegular }

// Correlation returns the id the sender expects back in the Ack.
func (m *Regular) Correlation() uint64 { return m.correlation }

// Payload returns the user payload.
func (m *Regular) Payload() string { return m.payload }

func (m *Regular) sealed() {}

// Heartbeat is a liveness signal. Its sequence grows with every beat of a
// given sender loop.
type Heartbeat struct {
	from     address.ID
	sequence uint64
	payload  string
}

var _ Message = (*Heartbeat)(nil)

// NewHeartbeat creates a Heartbeat message.
func NewHeartbeat(from address.ID, sequence uint64, payload string) *Heartbeat {
	return &Heartbeat{from: from, sequence: sequence, payload: payload}
}

// NewTerminalHeartbeat creates the heartbeat announcing a graceful completion.
func NewTerminalHeartbeat(from address.ID, sequence uint64) *Heartbeat {
	return NewHeartbeat(from, sequence, TerminalHeartbeat)
}

// Source returns the sender.
func (m *Heartbeat) Source() address.ID { return m.from }

// Kind returns KindHeartbeat.
func (m *Heartbeat) Kind() Kind { return KindHeartbeat }

// Sequence returns the beat number.
func (m *Heartbeat) Sequence() uint64 { return m.sequence }

// Payload returns the heartbeat payload, empty for ordinary beats.
func (m *Heartbeat) Payload() string { return m.payload }

// IsTerminal reports whether the heartbeat announces a graceful completion.
func (m *Heartbeat) IsTerminal() bool { return m.payload == TerminalHeartbeat }

func (m *Heartbeat) sealed() {}

// Ack acknowledges the Regular message sent with the same correlation id.
type Ack struct {
	from        address.ID
	correlation uint64
}

var _ Message = (*Ack)(nil)

// NewAck creates an Ack message.
func NewAck(from address.ID, correlation uint64) *Ack {
	return &Ack{from: from, correlation: correlation}
}

// Source returns the sender.
func (m *Ack) Source() address.ID { return m.from }

// Kind returns KindAck.
func (m *Ack) Kind() Kind { return KindAck }

// Correlation returns the acknowledged correlation id.
func (m *Ack) Correlation() uint64 { return m.correlation }

func (m *Ack) sealed() {}
