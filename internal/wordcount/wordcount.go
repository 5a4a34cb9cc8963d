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

// Package wordcount is a map-reduce word count written against the actor
// runtime. An initializer splits the input into bites, one mapper counts
// each bite and a reducer merges the partial counts into the run output.
//
// The reducer monitors the heartbeats of every mapper and revives the ones
// that go silent. Partial counts are keyed by mapper id so a revived mapper
// resending its result is harmless.
package wordcount

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/address"
)

const (
	// BiteSize is the number of words counted by one mapper.
	BiteSize = 20
	// InitializerID is the id of the first process of the run.
	InitializerID address.ID = 0

	// ackWindow bounds a single delivery attempt of a mapper result.
	ackWindow = 2 * time.Second
)

// Vocabulary is the set of words Generate picks from.
var Vocabulary = []string{"cat", "dog", "bird", "mouse", "horse"}

// Programs returns the initial programs of a run.
func Programs() map[address.ID]actor.Factory {
	return map[address.ID]actor.Factory{InitializerID: actor.FactoryOf(initialize)}
}

// Generate returns n words drawn uniformly from Vocabulary.
func Generate(n int, seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	words := make([]string, n)
	for i := range words {
		words[i] = Vocabulary[rng.IntN(len(Vocabulary))]
	}
	return words
}

// Count is the sequential reference of the distributed count.
func Count(words []string) map[string]int {
	counts := make(map[string]int)
	for _, word := range words {
		counts[word]++
	}
	return counts
}

type bite struct {
	start, end int
}

func bites(total int) []bite {
	out := make([]bite, 0, (total+BiteSize-1)/BiteSize)
	for start := 0; start < total; start += BiteSize {
		out = append(out, bite{start: start, end: min(start+BiteSize, total)})
	}
	return out
}

func mapperStartup(b bite, reducer address.ID) actor.Startup {
	return actor.StartupWith(fmt.Sprintf("%d,%d,%d", b.start, b.end, reducer))
}

func input(proc *actor.Process) ([]string, error) {
	words, ok := proc.Input().([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected input type %T", proc.Input())
	}
	return words, nil
}

func initialize(ctx context.Context, proc *actor.Process, _ actor.Startup) error {
	words, err := input(proc)
	if err != nil {
		return err
	}

	parts := bites(len(words))
	reducer := address.ID(len(parts) + 1)
	for i, b := range parts {
		if _, err := proc.Spawn(ctx, address.ID(i+1), actor.FactoryOf(mapWords), mapperStartup(b, reducer)); err != nil {
			return err
		}
	}

	_, err = proc.Spawn(ctx, reducer, actor.FactoryOf(reduce), actor.StartupWith(strconv.Itoa(len(parts))))
	return err
}

func mapWords(ctx context.Context, proc *actor.Process, startup actor.Startup) error {
	payload, _ := startup.Payload()
	fields := strings.Split(payload, ",")
	if len(fields) != 3 {
		return fmt.Errorf("malformed mapper startup %q", payload)
	}

	var bounds [3]int
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("malformed mapper startup %q: %w", payload, err)
		}
		bounds[i] = n
	}
	reducer := address.ID(bounds[2])

	if err := proc.StartHeartbeatSender(reducer); err != nil {
		return err
	}

	words, err := input(proc)
	if err != nil {
		return err
	}

	result, err := json.Marshal(Count(words[bounds[0]:bounds[1]]))
	if err != nil {
		return err
	}

	for {
		sendCtx, cancel := context.WithTimeout(ctx, ackWindow)
		err := proc.SendReliable(sendCtx, reducer, string(result))
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if _, ok := proc.System().Process(reducer); !ok {
			proc.Logger().Warnf("process=(%d) reducer=(%d) is gone, result dropped", proc.ID(), reducer)
			return nil
		}
	}
}

func reduce(ctx context.Context, proc *actor.Process, startup actor.Startup) error {
	payload, _ := startup.Payload()
	mappers, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("malformed reducer startup %q: %w", payload, err)
	}

	words, err := input(proc)
	if err != nil {
		return err
	}

	for i, b := range bites(len(words)) {
		if err := proc.StartHeartbeatMonitor(address.ID(i+1), actor.FactoryOf(mapWords), mapperStartup(b, proc.ID())); err != nil {
			return err
		}
	}

	partials := make(map[address.ID]map[string]int, mappers)
	for len(partials) < mappers {
		msg, err := proc.Receive(ctx)
		if err != nil {
			return err
		}

		var counts map[string]int
		if err := json.Unmarshal([]byte(msg.Payload()), &counts); err != nil {
			return err
		}
		partials[msg.Source()] = counts
	}

	total := make(map[string]int)
	for _, counts := range partials {
		for word, n := range counts {
			total[word] += n
		}
	}
	return proc.SetOutput(total)
}
