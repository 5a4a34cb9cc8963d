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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With an unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(Level(42), buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		msg, lvl := extractEntry(t, buffer.Bytes())
		assert.Equal(t, "test debug", msg)
		assert.Equal(t, "debug", lvl)
	})
	t.Run("With info level skips debug entries", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debugf("process=(%d) started", 1)
		require.Empty(t, buffer.String())
		assert.False(t, logger.Enabled(DebugLevel))
		assert.True(t, logger.Enabled(WarningLevel))

		logger.Infof("process=(%d) completed", 1)
		msg, lvl := extractEntry(t, buffer.Bytes())
		assert.Equal(t, "process=(1) completed", msg)
		assert.Equal(t, "info", lvl)
	})
	t.Run("With warn and error levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Warn("slow peer")
		msg, lvl := extractEntry(t, buffer.Bytes())
		assert.Equal(t, "slow peer", msg)
		assert.Equal(t, "warn", lvl)

		buffer.Reset()
		logger.Errorf("revival of process=(%d) failed", 2)
		msg, lvl = extractEntry(t, buffer.Bytes())
		assert.Equal(t, "revival of process=(2) failed", msg)
		assert.Equal(t, "error", lvl)
	})
	t.Run("With panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		assert.Panics(t, func() { logger.Panic("boom") })
		assert.Panics(t, func() { logger.Panicf("boom %d", 1) })
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("process", 3, "run", "abc", "err", errors.New("oops"), "dangling").Info("spawned")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
		assert.EqualValues(t, 3, entry["process"])
		assert.Equal(t, "abc", entry["run"])
		assert.Equal(t, "oops", entry["err"])
		assert.Equal(t, "dangling", entry["_"])
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, 2))
	})
	t.Run("LogOutput and Flush", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Len(t, logger.LogOutput(), 1)
		require.NoError(t, logger.Flush())
	})
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Info("ignored")
	DiscardLogger.Debugf("ignored %d", 1)
	assert.False(t, DiscardLogger.Enabled(InfoLevel))
	assert.True(t, DiscardLogger.Enabled(PanicLevel))
	assert.Equal(t, DiscardLogger, DiscardLogger.With("k", "v"))
	assert.Len(t, DiscardLogger.LogOutput(), 1)
	assert.Panics(t, func() { DiscardLogger.Panic("boom") })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        InfoLevel,
		"info":    InfoLevel,
		"DEBUG":   DebugLevel,
		"warn":    WarningLevel,
		"warning": WarningLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"panic":   PanicLevel,
	}
	for name, expected := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	level, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Equal(t, InvalidLevel, level)
	assert.Equal(t, "INVALID", level.String())
}

func extractEntry(t *testing.T, raw []byte) (string, string) {
	t.Helper()
	var entry struct {
		Msg   string `json:"msg"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(raw, &entry))
	return entry.Msg, entry.Level
}
