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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
)

func TestKind(t *testing.T) {
	for _, kind := range []Kind{KindRegular, KindHeartbeat, KindAck} {
		parsed, ok := ParseKind(kind.String())
		require.True(t, ok)
		assert.Equal(t, kind, parsed)
	}
	_, ok := ParseKind("gossip")
	assert.False(t, ok)
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestMessages(t *testing.T) {
	regular := NewRegular(1, 7, `{"k":"v"}`)
	assert.Equal(t, address.ID(1), regular.Source())
	assert.Equal(t, KindRegular, regular.Kind())
	assert.EqualValues(t, 7, regular.Correlation())
	assert.Equal(t, `{"k":"v"}`, regular.Payload())

	heartbeat := NewHeartbeat(2, 3, "")
	assert.Equal(t, KindHeartbeat, heartbeat.Kind())
	assert.False(t, heartbeat.IsTerminal())
	assert.True(t, NewTerminalHeartbeat(2, 4).IsTerminal())

	ack := NewAck(3, 7)
	assert.Equal(t, address.ID(3), ack.Source())
	assert.Equal(t, KindAck, ack.Kind())
	assert.EqualValues(t, 7, ack.Correlation())
}

func TestJSONCodec(t *testing.T) {
	codec := NewJSONCodec()
	assert.Equal(t, "json", codec.Name())

	t.Run("With regular message", func(t *testing.T) {
		data, err := codec.Encode(NewRegular(1, 7, "ping"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"src":1,"type":"regular","content":"ping","ack":7}`, string(data))

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, NewRegular(1, 7, "ping"), decoded)
	})
	t.Run("With empty regular payload", func(t *testing.T) {
		data, err := codec.Encode(NewRegular(1, 1, ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"src":1,"type":"regular","content":"","ack":1}`, string(data))
	})
	t.Run("With heartbeat message", func(t *testing.T) {
		data, err := codec.Encode(NewHeartbeat(4, 2, ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"src":4,"type":"heartbeat","content":null,"ack":2}`, string(data))

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, NewHeartbeat(4, 2, ""), decoded)

		data, err = codec.Encode(NewTerminalHeartbeat(4, 3))
		require.NoError(t, err)
		decoded, err = codec.Decode(data)
		require.NoError(t, err)
		heartbeat, ok := decoded.(*Heartbeat)
		require.True(t, ok)
		assert.True(t, heartbeat.IsTerminal())
	})
	t.Run("With acknowledge message", func(t *testing.T) {
		data, err := codec.Encode(NewAck(2, 7))
		require.NoError(t, err)
		assert.JSONEq(t, `{"src":2,"type":"acknowledge","content":null,"ack":7}`, string(data))

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, NewAck(2, 7), decoded)
	})
	t.Run("With nil message", func(t *testing.T) {
		_, err := codec.Encode(nil)
		assert.ErrorIs(t, err, gerrors.ErrUnknownMessageKind)
	})
	t.Run("With a payload that is not valid UTF-8", func(t *testing.T) {
		_, err := codec.Encode(NewRegular(1, 2, "\xff\xfea"))
		assert.ErrorIs(t, err, gerrors.ErrProtocolEncode)

		_, err = codec.Encode(NewHeartbeat(1, 1, "\xc3"))
		assert.ErrorIs(t, err, gerrors.ErrProtocolEncode)

		compressed := NewCompressedCodec(codec, Zstd)
		_, err = compressed.Encode(NewRegular(1, 2, "\xff\xfea"))
		assert.ErrorIs(t, err, gerrors.ErrProtocolEncode)
	})
	t.Run("With a multibyte payload", func(t *testing.T) {
		msg := NewRegular(1, 2, "héllo, 世界")
		data, err := codec.Encode(msg)
		require.NoError(t, err)

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	})
	t.Run("With malformed input", func(t *testing.T) {
		inputs := []string{
			`{"src":1,"type":"regular"`,
			`not json`,
			`{"src":1,"type":"gossip","content":null,"ack":1}`,
			`{"src":"one","type":"regular","content":"x","ack":1}`,
			`null`,
		}
		for _, input := range inputs {
			_, err := codec.Decode([]byte(input))
			assert.ErrorIs(t, err, gerrors.ErrProtocolDecode, input)
		}
	})
}

func TestCompressedCodec(t *testing.T) {
	for _, algorithm := range []Compression{Zstd, Brotli} {
		t.Run(string(algorithm), func(t *testing.T) {
			codec := NewCompressedCodec(NewJSONCodec(), algorithm)
			assert.Equal(t, "json+"+string(algorithm), codec.Name())

			messages := []Message{
				NewRegular(1, 9, `{"words":["a","b"]}`),
				NewHeartbeat(2, 1, ""),
				NewAck(3, 9),
			}
			for _, msg := range messages {
				data, err := codec.Encode(msg)
				require.NoError(t, err)
				decoded, err := codec.Decode(data)
				require.NoError(t, err)
				assert.Equal(t, msg, decoded)
			}
		})
	}

	t.Run("With corrupted frame", func(t *testing.T) {
		codec := NewCompressedCodec(NewJSONCodec(), Zstd)
		_, err := codec.Decode([]byte("garbage"))
		assert.ErrorIs(t, err, gerrors.ErrProtocolDecode)
	})
}
