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
	gerrors "github.com/tochemey/faultsim/errors"
	"github.com/tochemey/faultsim/internal/compression"
)

// Compression names the algorithm used by a CompressedCodec.
type Compression = compression.Algorithm

const (
	// Zstd compresses frames with Zstandard.
	Zstd = compression.Zstd
	// Brotli compresses frames with Brotli.
	Brotli = compression.Brotli
)

// CompressedCodec compresses the frames produced by another codec.
type CompressedCodec struct {
	inner     Codec
	algorithm Compression
}

var _ Codec = (*CompressedCodec)(nil)

// NewCompressedCodec wraps inner with the given compression algorithm.
func NewCompressedCodec(inner Codec, algorithm Compression) *CompressedCodec {
	return &CompressedCodec{inner: inner, algorithm: algorithm}
}

// Name returns the inner codec name suffixed with the algorithm.
func (c *CompressedCodec) Name() string {
	return c.inner.Name() + "+" + string(c.algorithm)
}

// Encode encodes msg with the inner codec and compresses the result.
func (c *CompressedCodec) Encode(msg Message) ([]byte, error) {
	data, err := c.inner.Encode(msg)
	if err != nil {
		return nil, err
	}
	return compression.Compress(c.algorithm, data)
}

// Decode decompresses data and decodes it with the inner codec.
func (c *CompressedCodec) Decode(data []byte) (Message, error) {
	raw, err := compression.Decompress(c.algorithm, data)
	if err != nil {
		return nil, gerrors.NewErrProtocolDecode(err)
	}
	return c.inner.Decode(raw)
}
