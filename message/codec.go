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
	"fmt"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/tochemey/faultsim/address"
	gerrors "github.com/tochemey/faultsim/errors"
)

// Codec converts messages to and from their wire representation.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name identifies the codec in logs and configuration.
	Name() string
	// Encode serializes the message.
	Encode(msg Message) ([]byte, error)
	// Decode rebuilds a message. Any malformed input yields an error
	// matching errors.ErrProtocolDecode.
	Decode(data []byte) (Message, error)
}

// frame is the JSON shape of a message on the wire:
//
//	{"src":1,"type":"regular","content":"...","ack":7}
//
// ack holds the correlation id of regular and acknowledge messages and the
// sequence of heartbeats. content is null when the message has no payload.
type frame struct {
	Src     int     `json:"src"`
	Type    string  `json:"type"`
	Content *string `json:"content"`
	Ack     uint64  `json:"ack"`
}

// JSONCodec implements Codec with the JSON wire format.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec() JSONCodec {
	return JSONCodec{}
}

// Name returns "json".
func (JSONCodec) Name() string {
	return "json"
}

// Encode serializes msg as a JSON frame. Payloads must be valid UTF-8:
// JSON strings cannot carry arbitrary bytes unchanged.
func (JSONCodec) Encode(msg Message) ([]byte, error) {
	var out frame
	switch m := msg.(type) {
	case *Regular:
		if !utf8.ValidString(m.payload) {
			return nil, gerrors.NewErrProtocolEncode(fmt.Errorf("regular payload from process=(%d) is not valid UTF-8", m.from))
		}
		payload := m.payload
		out = frame{Src: m.from.Int(), Type: KindRegular.String(), Content: &payload, Ack: m.correlation}
	case *Heartbeat:
		if !utf8.ValidString(m.payload) {
			return nil, gerrors.NewErrProtocolEncode(fmt.Errorf("heartbeat payload from process=(%d) is not valid UTF-8", m.from))
		}
		out = frame{Src: m.from.Int(), Type: KindHeartbeat.String(), Ack: m.sequence}
		if m.payload != "" {
			payload := m.payload
			out.Content = &payload
		}
	case *Ack:
		out = frame{Src: m.from.Int(), Type: KindAck.String(), Ack: m.correlation}
	default:
		return nil, fmt.Errorf("cannot encode %T: %w", msg, gerrors.ErrUnknownMessageKind)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, gerrors.NewErrProtocolEncode(err)
	}
	return data, nil
}

// Decode parses a JSON frame.
func (JSONCodec) Decode(data []byte) (Message, error) {
	var in frame
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, gerrors.NewErrProtocolDecode(err)
	}

	kind, ok := ParseKind(in.Type)
	if !ok {
		return nil, gerrors.NewErrProtocolDecode(fmt.Errorf("unknown message type=(%s)", in.Type))
	}

	var content string
	if in.Content != nil {
		content = *in.Content
	}

	from := address.ID(in.Src)
	switch kind {
	case KindRegular:
		return NewRegular(from, in.Ack, content), nil
	case KindHeartbeat:
		return NewHeartbeat(from, in.Ack, content), nil
	default:
		return NewAck(from, in.Ack), nil
	}
}
