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

package testkit

import (
	"sync"

	"github.com/tochemey/faultsim/address"
	"github.com/tochemey/faultsim/fault"
	"github.com/tochemey/faultsim/message"
)

// Matcher selects transmissions.
type Matcher func(target address.ID, msg message.Message) bool

// Any matches every transmission.
func Any() Matcher {
	return func(address.ID, message.Message) bool { return true }
}

// To matches the transmissions addressed to target.
func To(target address.ID) Matcher {
	return func(to address.ID, _ message.Message) bool { return to == target }
}

// From matches the transmissions sent by source.
func From(source address.ID) Matcher {
	return func(_ address.ID, msg message.Message) bool { return msg != nil && msg.Source() == source }
}

// OfKind matches the transmissions of the given kind.
func OfKind(kind message.Kind) Matcher {
	return func(_ address.ID, msg message.Message) bool { return msg != nil && msg.Kind() == kind }
}

// All matches when every matcher does.
func All(matchers ...Matcher) Matcher {
	return func(target address.ID, msg message.Message) bool {
		for _, match := range matchers {
			if !match(target, msg) {
				return false
			}
		}
		return true
	}
}

// Transmission is a message seen by a Script.
type Transmission struct {
	Target  address.ID
	Message message.Message
	Dropped bool
}

type rule struct {
	match     Matcher
	remaining int
}

// Script is a deterministic drop policy. It drops the transmissions its
// rules select and records every transmission it is asked about.
type Script struct {
	mu    sync.Mutex
	rules []*rule
	log   []Transmission
}

var _ fault.DropPolicy = (*Script)(nil)

// NewScript creates a Script that drops nothing.
func NewScript() *Script {
	return &Script{}
}

// DropFirst drops the first n transmissions selected by match.
func (s *Script) DropFirst(n int, match Matcher) *Script {
	s.mu.Lock()
	s.rules = append(s.rules, &rule{match: match, remaining: n})
	s.mu.Unlock()
	return s
}

// DropAll drops every transmission selected by match.
func (s *Script) DropAll(match Matcher) *Script {
	return s.DropFirst(fault.Unbounded, match)
}

// ShouldDrop implements fault.DropPolicy.
func (s *Script) ShouldDrop(target address.ID, msg message.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := false
	for _, r := range s.rules {
		if r.remaining == 0 || !r.match(target, msg) {
			continue
		}
		if r.remaining > 0 {
			r.remaining--
		}
		dropped = true
		break
	}

	s.log = append(s.log, Transmission{Target: target, Message: msg, Dropped: dropped})
	return dropped
}

// Transmissions returns a copy of the recorded transmissions.
func (s *Script) Transmissions() []Transmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transmission, len(s.log))
	copy(out, s.log)
	return out
}

// Count returns the number of recorded transmissions selected by match.
func (s *Script) Count(match Matcher) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, tr := range s.log {
		if match(tr.Target, tr.Message) {
			n++
		}
	}
	return n
}

// Delivered returns the number of recorded transmissions selected by match
// that were let through.
func (s *Script) Delivered(match Matcher) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, tr := range s.log {
		if !tr.Dropped && match(tr.Target, tr.Message) {
			n++
		}
	}
	return n
}
