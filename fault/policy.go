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
	"math/rand/v2"
	"sync"

	"github.com/tochemey/faultsim/address"
	"github.com/tochemey/faultsim/message"
)

// DropPolicy decides whether a message in flight is lost. It is consulted
// once per transmission, so every resend of a message is judged again.
// Implementations must be safe for concurrent use.
type DropPolicy interface {
	ShouldDrop(target address.ID, msg message.Message) bool
}

// DropPolicyFunc adapts a function to DropPolicy.
type DropPolicyFunc func(target address.ID, msg message.Message) bool

// ShouldDrop calls f.
func (f DropPolicyFunc) ShouldDrop(target address.ID, msg message.Message) bool {
	return f(target, msg)
}

// NeverDrop delivers every message.
var NeverDrop DropPolicy = DropPolicyFunc(func(address.ID, message.Message) bool { return false })

// source is a random source shared by every decision of an Injector.
type source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(seed *uint64) *source {
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &source{rng: rng}
}

func (s *source) float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *source) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// probabilistic drops each message independently with a fixed probability.
type probabilistic struct {
	probability float64
	random      *source
}

var _ DropPolicy = (*probabilistic)(nil)

func (p *probabilistic) ShouldDrop(address.ID, message.Message) bool {
	switch {
	case p.probability <= 0:
		return false
	case p.probability >= 1:
		return true
	default:
		return p.random.float64() < p.probability
	}
}
