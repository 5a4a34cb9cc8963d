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

// Metric is a snapshot of the system counters.
type Metric struct {
	processesCount  int64
	spawns          int64
	revivals        int64
	revivalFailures int64
	kills           int64
	drops           int64
	retransmissions int64
	fatalErrors     int64
	uptime          int64
}

// ProcessesCount returns the number of live processes.
func (m Metric) ProcessesCount() int64 { return m.processesCount }

// Spawns returns the number of successful spawns, revivals included.
func (m Metric) Spawns() int64 { return m.spawns }

// Revivals returns the number of peers revived by heartbeat monitors.
func (m Metric) Revivals() int64 { return m.revivals }

// RevivalFailures returns the number of revivals refused by the registry.
func (m Metric) RevivalFailures() int64 { return m.revivalFailures }

// Kills returns the number of processes killed by the fault injector or Kill.
func (m Metric) Kills() int64 { return m.kills }

// Drops returns the number of transmissions lost in flight or at a full inbox.
func (m Metric) Drops() int64 { return m.drops }

// Retransmissions returns the number of regular messages resent for lack of an ack.
func (m Metric) Retransmissions() int64 { return m.retransmissions }

// FatalErrors returns the number of fatal errors.
func (m Metric) FatalErrors() int64 { return m.fatalErrors }

// Uptime returns the number of seconds since the system was created.
func (m Metric) Uptime() int64 { return m.uptime }
