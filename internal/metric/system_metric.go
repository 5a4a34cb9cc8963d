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

package metric

import "go.opentelemetry.io/otel/metric"

// SystemMetric groups the instruments describing a running system.
//
// Instruments:
//   - faultsim.processes.count       live processes
//   - faultsim.spawns.count          successful spawns, revivals included
//   - faultsim.revivals.count        peers revived by a heartbeat monitor
//   - faultsim.revival_failures.count revivals refused by the registry
//   - faultsim.kills.count           processes killed by the fault injector or Kill
//   - faultsim.drops.count           transmissions lost in flight
//   - faultsim.retransmissions.count regular messages resent for lack of an ack
//   - faultsim.fatal_errors.count    protocol violations and program panics
//   - faultsim.uptime                seconds since the system was created
type SystemMetric struct {
	processesCount       metric.Int64ObservableCounter
	spawnsCount          metric.Int64ObservableCounter
	revivalsCount        metric.Int64ObservableCounter
	revivalFailuresCount metric.Int64ObservableCounter
	killsCount           metric.Int64ObservableCounter
	dropsCount           metric.Int64ObservableCounter
	retransmissionsCount metric.Int64ObservableCounter
	fatalErrorsCount     metric.Int64ObservableCounter
	uptime               metric.Int64ObservableCounter
}

// NewSystemMetric creates the system instruments on meter.
func NewSystemMetric(meter metric.Meter) (*SystemMetric, error) {
	var instruments SystemMetric

	counters := []struct {
		target      *metric.Int64ObservableCounter
		name        string
		description string
		unit        string
	}{
		{&instruments.processesCount, "faultsim.processes.count", "Number of live processes", ""},
		{&instruments.spawnsCount, "faultsim.spawns.count", "Total number of successful spawns", ""},
		{&instruments.revivalsCount, "faultsim.revivals.count", "Total number of revived processes", ""},
		{&instruments.revivalFailuresCount, "faultsim.revival_failures.count", "Total number of failed revivals", ""},
		{&instruments.killsCount, "faultsim.kills.count", "Total number of killed processes", ""},
		{&instruments.dropsCount, "faultsim.drops.count", "Total number of dropped messages", ""},
		{&instruments.retransmissionsCount, "faultsim.retransmissions.count", "Total number of retransmitted messages", ""},
		{&instruments.fatalErrorsCount, "faultsim.fatal_errors.count", "Total number of fatal errors", ""},
		{&instruments.uptime, "faultsim.uptime", "Uptime of the system in seconds", "s"},
	}

	for _, def := range counters {
		opts := []metric.Int64ObservableCounterOption{metric.WithDescription(def.description)}
		if def.unit != "" {
			opts = append(opts, metric.WithUnit(def.unit))
		}

		counter, err := meter.Int64ObservableCounter(def.name, opts...)
		if err != nil {
			return nil, err
		}
		*def.target = counter
	}

	return &instruments, nil
}

// ProcessesCount returns the live processes counter.
func (x *SystemMetric) ProcessesCount() metric.Int64ObservableCounter { return x.processesCount }

// SpawnsCount returns the spawns counter.
func (x *SystemMetric) SpawnsCount() metric.Int64ObservableCounter { return x.spawnsCount }

// RevivalsCount returns the revivals counter.
func (x *SystemMetric) RevivalsCount() metric.Int64ObservableCounter { return x.revivalsCount }

// RevivalFailuresCount returns the failed revivals counter.
func (x *SystemMetric) RevivalFailuresCount() metric.Int64ObservableCounter {
	return x.revivalFailuresCount
}

// KillsCount returns the kills counter.
func (x *SystemMetric) KillsCount() metric.Int64ObservableCounter { return x.killsCount }

// DropsCount returns the dropped messages counter.
func (x *SystemMetric) DropsCount() metric.Int64ObservableCounter { return x.dropsCount }

// RetransmissionsCount returns the retransmissions counter.
func (x *SystemMetric) RetransmissionsCount() metric.Int64ObservableCounter {
	return x.retransmissionsCount
}

// FatalErrorsCount returns the fatal errors counter.
func (x *SystemMetric) FatalErrorsCount() metric.Int64ObservableCounter { return x.fatalErrorsCount }

// Uptime returns the uptime counter.
func (x *SystemMetric) Uptime() metric.Int64ObservableCounter { return x.uptime }

// Observables returns every instrument, ready to be passed to
// Meter.RegisterCallback.
func (x *SystemMetric) Observables() []metric.Observable {
	return []metric.Observable{
		x.processesCount,
		x.spawnsCount,
		x.revivalsCount,
		x.revivalFailuresCount,
		x.killsCount,
		x.dropsCount,
		x.retransmissionsCount,
		x.fatalErrorsCount,
		x.uptime,
	}
}
