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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	err := NewErrDuplicateID(3)
	require.EqualError(t, err, "process=(3) process id already in use")
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = NewErrSelfTerminated(1)
	require.EqualError(t, err, "process=(1) process is no longer alive")
	assert.ErrorIs(t, err, ErrSelfTerminated)

	err = NewErrProcessNotFound(9)
	require.EqualError(t, err, "process=(9) process not found")
	assert.ErrorIs(t, err, ErrProcessNotFound)

	err = NewErrUnknownMessageKind(2, 42)
	require.EqualError(t, err, "process=(2) received int: unknown message kind")
	assert.ErrorIs(t, err, ErrUnknownMessageKind)

	cause := errors.New("unexpected end of JSON input")
	err = NewErrProtocolDecode(cause)
	assert.ErrorIs(t, err, ErrProtocolDecode)
	assert.ErrorIs(t, err, cause)

	err = NewErrProtocolEncode(cause)
	assert.ErrorIs(t, err, ErrProtocolEncode)
	assert.ErrorIs(t, err, cause)

	err = NewErrInvalidDropProbability(1.5)
	require.EqualError(t, err, "probability=(1.5) drop probability must be within [0, 1]")
	assert.ErrorIs(t, err, ErrInvalidDropProbability)
}

func TestNewErrProgramPanic(t *testing.T) {
	t.Run("With an error value", func(t *testing.T) {
		cause := errors.New("index out of range")
		err := NewErrProgramPanic(4, cause)
		assert.ErrorIs(t, err, ErrProgramPanic)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("With a non error value", func(t *testing.T) {
		err := NewErrProgramPanic(4, "boom")
		require.EqualError(t, err, "process=(4) program panicked: boom")
		assert.ErrorIs(t, err, ErrProgramPanic)
	})
}
