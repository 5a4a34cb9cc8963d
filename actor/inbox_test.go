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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox(t *testing.T) {
	t.Run("With bounded capacity", func(t *testing.T) {
		box := newInbox(2)
		defer box.Dispose()

		assert.True(t, box.Offer("a"))
		assert.True(t, box.Offer("b"))
		assert.False(t, box.Offer("c"))
		assert.Equal(t, 2, box.Len())

		item, ok := box.Poll(context.Background(), 10*time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, "a", item)
		item, ok = box.Poll(context.Background(), 10*time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, "b", item)
	})
	t.Run("With poll timeout", func(t *testing.T) {
		box := newInbox(4)
		defer box.Dispose()

		start := time.Now()
		_, ok := box.Poll(context.Background(), 30*time.Millisecond)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})
	t.Run("With late offer", func(t *testing.T) {
		box := newInbox(4)
		defer box.Dispose()

		go func() {
			time.Sleep(20 * time.Millisecond)
			box.Offer("late")
		}()

		item, ok := box.Poll(context.Background(), time.Second)
		require.True(t, ok)
		assert.Equal(t, "late", item)
	})
	t.Run("With context cancelled", func(t *testing.T) {
		box := newInbox(4)
		defer box.Dispose()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, ok := box.Poll(ctx, time.Second)
		assert.False(t, ok)
	})
	t.Run("With disposed inbox", func(t *testing.T) {
		box := newInbox(4)
		box.Dispose()
		assert.False(t, box.Offer("x"))
	})
}
