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

// Package address defines how processes are identified inside a system.
//
// A process is addressed by a small integer chosen by the code that spawns
// it. Identifiers are unique among the processes currently registered and can
// be reused once a process leaves the registry, which is how a crashed peer is
// revived under the same address.
package address

import (
	"fmt"
	"strconv"
)

// ID identifies a process within a system.
type ID int

// NoSender is the identifier used by code outside any process.
const NoSender ID = -1

// String returns the canonical textual form of the identifier.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Int returns the identifier as a plain int.
func (id ID) Int() int {
	return int(id)
}

// IsNoSender reports whether the identifier is NoSender.
func (id ID) IsNoSender() bool {
	return id == NoSender
}

// Parse converts the textual form of an identifier back into an ID.
func Parse(text string) (ID, error) {
	value, err := strconv.Atoi(text)
	if err != nil {
		return NoSender, fmt.Errorf("invalid process id=(%s): %w", text, err)
	}
	return ID(value), nil
}
