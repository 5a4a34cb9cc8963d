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
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
)

// inbox is the bounded general inbox of a process: a ring buffer fed by
// many producers and drained by the inbound loop of the process.
//
// Offer never blocks. A full inbox refuses the message, which the sender
// experiences as a drop. Poll waits on a notification channel rather than
// spinning on the ring buffer.
type inbox struct {
	underlying *gods.RingBuffer
	notify     chan struct{}
}

func newInbox(capacity int) *inbox {
	return &inbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
		notify:     make(chan struct{}, 1),
	}
}

// Offer enqueues item. It reports false when the inbox is full or disposed.
func (x *inbox) Offer(item any) bool {
	ok, err := x.underlying.Offer(item)
	if err != nil || !ok {
		return false
	}
	select {
	case x.notify <- struct{}{}:
	default:
	}
	return true
}

// Poll returns the next item, waiting at most timeout. It must be called by
// a single consumer.
func (x *inbox) Poll(ctx context.Context, timeout time.Duration) (any, bool) {
	if item, ok := x.dequeue(); ok {
		return item, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-x.notify:
	case <-timer.C:
	case <-ctx.Done():
		return nil, false
	}
	return x.dequeue()
}

// Len returns a snapshot of the number of queued items.
func (x *inbox) Len() int {
	return int(x.underlying.Len())
}

// Dispose releases the ring buffer. Later offers fail.
func (x *inbox) Dispose() {
	x.underlying.Dispose()
}

func (x *inbox) dequeue() (any, bool) {
	if x.underlying.Len() == 0 {
		return nil, false
	}
	item, err := x.underlying.Get()
	if err != nil {
		return nil, false
	}
	return item, true
}
