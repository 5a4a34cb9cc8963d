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

package wordcount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGenerate(t *testing.T) {
	words := Generate(100, 11)
	require.Len(t, words, 100)
	assert.Equal(t, words, Generate(100, 11))
	for _, word := range words {
		assert.Contains(t, Vocabulary, word)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, map[string]int{"cat": 2, "dog": 1}, Count([]string{"cat", "dog", "cat"}))
	assert.Empty(t, Count(nil))
}

func TestBites(t *testing.T) {
	assert.Empty(t, bites(0))
	assert.Equal(t, []bite{{0, 20}, {20, 40}, {40, 45}}, bites(45))
	assert.Equal(t, []bite{{0, 20}}, bites(20))
}

func run(t *testing.T, words []string, dropProbability float64) any {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewSystem(
		actor.WithLogger(log.DiscardLogger),
		actor.WithRetryInterval(20*time.Millisecond),
		actor.WithPollInterval(10*time.Millisecond),
		actor.WithHeartbeatInterval(50*time.Millisecond),
		actor.WithHeartbeatTimeout(time.Second),
		actor.WithRandSeed(5),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, system.Stop(ctx)) })
	require.NoError(t, system.ConfigureFaults(dropProbability, 0, 0))

	require.NoError(t, system.Run(ctx, words, Programs()))

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	output, err := system.WaitForCompletion(waitCtx)
	require.NoError(t, err)
	return output
}

func TestWordCount(t *testing.T) {
	t.Run("With a reliable link", func(t *testing.T) {
		words := Generate(100, 1)
		assert.Equal(t, Count(words), run(t, words, 0))
	})
	t.Run("With a lossy link", func(t *testing.T) {
		words := Generate(65, 2)
		assert.Equal(t, Count(words), run(t, words, 0.2))
	})
	t.Run("With no words", func(t *testing.T) {
		assert.Equal(t, map[string]int{}, run(t, nil, 0))
	})
}
