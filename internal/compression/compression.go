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

// Package compression compresses encoded message frames.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a supported compression algorithm.
type Algorithm string

const (
	// Zstd is the Zstandard algorithm.
	Zstd Algorithm = "zstd"
	// Brotli is the Brotli algorithm.
	Brotli Algorithm = "brotli"
)

// maxDecodedSize caps a decompressed frame.
const maxDecodedSize = 16 << 20

var zstdEncodersPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		return enc
	},
}

var zstdDecodersPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxDecodedSize))
		return dec
	},
}

var brotliWritersPool = sync.Pool{
	New: func() any {
		return brotli.NewWriterLevel(nil, brotli.BestSpeed)
	},
}

var brotliReadersPool = sync.Pool{
	New: func() any {
		return brotli.NewReader(nil)
	},
}

// Compress compresses data with the given algorithm.
func Compress(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case Zstd:
		enc := zstdEncodersPool.Get().(*zstd.Encoder)
		defer zstdEncodersPool.Put(enc)
		return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
	case Brotli:
		var buf bytes.Buffer
		writer := brotliWritersPool.Get().(*brotli.Writer)
		writer.Reset(&buf)
		defer func() {
			writer.Reset(nil)
			brotliWritersPool.Put(writer)
		}()
		if _, err := writer.Write(data); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm=(%s)", algorithm)
	}
}

// Decompress reverses Compress.
func Decompress(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case Zstd:
		dec := zstdDecodersPool.Get().(*zstd.Decoder)
		defer zstdDecodersPool.Put(dec)
		return dec.DecodeAll(data, nil)
	case Brotli:
		reader := brotliReadersPool.Get().(*brotli.Reader)
		defer brotliReadersPool.Put(reader)
		if err := reader.Reset(bytes.NewReader(data)); err != nil {
			return nil, err
		}
		out, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize+1))
		if err != nil {
			return nil, err
		}
		if len(out) > maxDecodedSize {
			return nil, fmt.Errorf("decompressed frame exceeds %d bytes", maxDecodedSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm=(%s)", algorithm)
	}
}
