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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type failingMeter struct {
	metric.Meter
	failures map[string]error
}

func (m failingMeter) Int64ObservableCounter(name string, opts ...metric.Int64ObservableCounterOption) (metric.Int64ObservableCounter, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	return m.Meter.Int64ObservableCounter(name, opts...)
}

type recorderMeterProvider struct {
	metric.MeterProvider
	called []string
}

func (p *recorderMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	p.called = append(p.called, name)
	return p.MeterProvider.Meter(name, opts...)
}

func TestSystemMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	instruments, err := NewSystemMetric(meter)
	require.NoError(t, err)
	require.NotNil(t, instruments)

	require.NotNil(t, instruments.ProcessesCount())
	require.NotNil(t, instruments.SpawnsCount())
	require.NotNil(t, instruments.RevivalsCount())
	require.NotNil(t, instruments.RevivalFailuresCount())
	require.NotNil(t, instruments.KillsCount())
	require.NotNil(t, instruments.DropsCount())
	require.NotNil(t, instruments.RetransmissionsCount())
	require.NotNil(t, instruments.FatalErrorsCount())
	require.NotNil(t, instruments.Uptime())
	require.Len(t, instruments.Observables(), 9)
}

func TestSystemMetricErrors(t *testing.T) {
	errBoom := errors.New("boom")
	baseMeter := noop.NewMeterProvider().Meter("test")

	names := []string{
		"faultsim.processes.count",
		"faultsim.revivals.count",
		"faultsim.drops.count",
		"faultsim.uptime",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			meter := failingMeter{Meter: baseMeter, failures: map[string]error{name: errBoom}}
			instruments, err := NewSystemMetric(meter)
			require.ErrorIs(t, err, errBoom)
			require.Nil(t, instruments)
		})
	}
}

func TestProvider(t *testing.T) {
	t.Run("With global provider", func(t *testing.T) {
		prev := otel.GetMeterProvider()
		recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		otel.SetMeterProvider(recorder)
		t.Cleanup(func() { otel.SetMeterProvider(prev) })

		provider := New()
		require.NotNil(t, provider.Meter())
		require.Equal(t, []string{instrumentationName}, recorder.called)
	})
	t.Run("With custom provider", func(t *testing.T) {
		recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		provider := New(WithMeterProvider(recorder), WithMeterProvider(nil))
		require.NotNil(t, provider.Meter())
		require.Equal(t, []string{instrumentationName}, recorder.called)
	})
}
