// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines minimal counter, gauge and histogram interfaces
// and their prometheus implementations. Components accept the interfaces so
// tests can observe metric updates without a prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	Add(delta float64)
}

// Gauge describes a metric that takes arbitrary values.
type Gauge interface {
	Set(value float64)
	Add(delta float64)
}

// Histogram describes a metric that takes repeated observations and puts
// them in buckets.
type Histogram interface {
	Observe(value float64)
}

// CounterInc increments the counter by one, if it is not nil.
func CounterInc(c Counter) {
	if c != nil {
		c.Add(1)
	}
}

// CounterAdd adds the delta to the counter, if it is not nil.
func CounterAdd(c Counter, delta float64) {
	if c != nil {
		c.Add(delta)
	}
}

// GaugeSet sets the gauge to the value, if it is not nil.
func GaugeSet(g Gauge, value float64) {
	if g != nil {
		g.Set(value)
	}
}

// HistogramObserve records the observation, if the histogram is not nil.
func HistogramObserve(h Histogram, value float64) {
	if h != nil {
		h.Observe(value)
	}
}

// NewPromCounter wraps a prometheus counter vector with fixed label values.
// Returns nil if cv is nil.
func NewPromCounter(cv *prometheus.CounterVec, labelValues ...string) Counter {
	if cv == nil {
		return nil
	}
	return promCounter{c: cv.WithLabelValues(labelValues...)}
}

// NewPromGauge wraps a prometheus gauge vector with fixed label values.
// Returns nil if gv is nil.
func NewPromGauge(gv *prometheus.GaugeVec, labelValues ...string) Gauge {
	if gv == nil {
		return nil
	}
	return promGauge{g: gv.WithLabelValues(labelValues...)}
}

// NewPromHistogram wraps a prometheus histogram vector with fixed label
// values. Returns nil if hv is nil.
func NewPromHistogram(hv *prometheus.HistogramVec, labelValues ...string) Histogram {
	if hv == nil {
		return nil
	}
	return promHistogram{o: hv.WithLabelValues(labelValues...)}
}

type promCounter struct {
	c prometheus.Counter
}

func (p promCounter) Add(delta float64) { p.c.Add(delta) }

type promGauge struct {
	g prometheus.Gauge
}

func (p promGauge) Set(value float64) { p.g.Set(value) }
func (p promGauge) Add(delta float64) { p.g.Add(delta) }

type promHistogram struct {
	o prometheus.Observer
}

func (p promHistogram) Observe(value float64) { p.o.Observe(value) }
