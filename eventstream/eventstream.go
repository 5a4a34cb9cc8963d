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

// Package eventstream is an in-process topic based broker. Publishing never
// blocks: each subscriber buffers its messages until it reads them.
package eventstream

import (
	"sync"

	goset "github.com/deckarep/golang-set/v2"
)

// Stream defines the broker contract.
type Stream interface {
	// AddSubscriber creates a subscriber. Once the stream is closed the
	// subscriber is returned already shut down.
	AddSubscriber() Subscriber
	// RemoveSubscriber unsubscribes the subscriber from every topic and shuts it down.
	RemoveSubscriber(sub Subscriber)
	// SubscribersCount returns the number of subscribers of a topic.
	SubscribersCount(topic string) int
	// Subscribe subscribes a subscriber to a topic.
	Subscribe(sub Subscriber, topic string)
	// Unsubscribe removes a subscriber from a topic.
	Unsubscribe(sub Subscriber, topic string)
	// Publish publishes a message to a topic.
	Publish(topic string, msg any)
	// Close shuts down every subscriber.
	Close()
}

// EventsStream implements Stream. A single lock guards the subscribers and
// the topic memberships; delivery happens outside of it.
type EventsStream struct {
	mu          sync.RWMutex
	closed      bool
	subscribers map[string]Subscriber
	topics      map[string]goset.Set[string]
}

var _ Stream = (*EventsStream)(nil)

// New creates a Stream.
func New() Stream {
	return &EventsStream{
		subscribers: make(map[string]Subscriber),
		topics:      make(map[string]goset.Set[string]),
	}
}

// AddSubscriber creates a subscriber.
func (b *EventsStream) AddSubscriber() Subscriber {
	sub := newSubscriber()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.Shutdown()
		return sub
	}
	b.subscribers[sub.ID()] = sub
	return sub
}

// RemoveSubscriber unsubscribes the subscriber from every topic and shuts it down.
func (b *EventsStream) RemoveSubscriber(sub Subscriber) {
	b.mu.Lock()
	for _, topic := range sub.Topics() {
		b.leave(sub, topic)
	}
	delete(b.subscribers, sub.ID())
	b.mu.Unlock()

	sub.Shutdown()
}

// SubscribersCount returns the number of subscribers of a topic.
func (b *EventsStream) SubscribersCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if members, ok := b.topics[topic]; ok {
		return members.Cardinality()
	}
	return 0
}

// Subscribe subscribes an active subscriber to a topic.
func (b *EventsStream) Subscribe(sub Subscriber, topic string) {
	if !sub.Active() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	members, ok := b.topics[topic]
	if !ok {
		members = goset.NewThreadUnsafeSet[string]()
		b.topics[topic] = members
	}
	members.Add(sub.ID())
	sub.subscribe(topic)
}

// Unsubscribe removes a subscriber from a topic.
func (b *EventsStream) Unsubscribe(sub Subscriber, topic string) {
	b.mu.Lock()
	b.leave(sub, topic)
	b.mu.Unlock()
}

// Publish publishes a message to a topic. Subscribers that went inactive
// are skipped.
func (b *EventsStream) Publish(topic string, msg any) {
	b.mu.RLock()
	members, ok := b.topics[topic]
	if !ok {
		b.mu.RUnlock()
		return
	}
	recipients := make([]Subscriber, 0, members.Cardinality())
	members.Each(func(id string) bool {
		if sub, ok := b.subscribers[id]; ok && sub.Active() {
			recipients = append(recipients, sub)
		}
		return false
	})
	b.mu.RUnlock()

	message := NewMessage(topic, msg)
	for _, sub := range recipients {
		sub.signal(message)
	}
}

// Close shuts down every subscriber and forgets every topic. Later
// subscriptions are refused.
func (b *EventsStream) Close() {
	b.mu.Lock()
	subscribers := b.subscribers
	b.closed = true
	b.subscribers = make(map[string]Subscriber)
	b.topics = make(map[string]goset.Set[string])
	b.mu.Unlock()

	for _, sub := range subscribers {
		sub.Shutdown()
	}
}

// leave removes sub from topic. The caller holds the lock.
func (b *EventsStream) leave(sub Subscriber, topic string) {
	sub.unsubscribe(topic)
	members, ok := b.topics[topic]
	if !ok {
		return
	}
	members.Remove(sub.ID())
	if members.Cardinality() == 0 {
		delete(b.topics, topic)
	}
}
