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

package metrics

import (
	"sync"
)

// TestCounter implements the Counter interface for tests.
type TestCounter struct {
	mu sync.Mutex
	v  float64
}

// Add implements Counter.
func (c *TestCounter) Add(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v += delta
}

// Value returns the accumulated value.
func (c *TestCounter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// TestGauge implements the Gauge interface for tests.
type TestGauge struct {
	mu sync.Mutex
	v  float64
}

// Set implements Gauge.
func (g *TestGauge) Set(value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.v = value
}

// Add implements Gauge.
func (g *TestGauge) Add(delta float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.v += delta
}

// Value returns the current value.
func (g *TestGauge) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.v
}

// TestHistogram implements the Histogram interface for tests.
type TestHistogram struct {
	mu  sync.Mutex
	obs []float64
}

// Observe implements Histogram.
func (h *TestHistogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.obs = append(h.obs, value)
}

// Observations returns all recorded observations.
func (h *TestHistogram) Observations() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.obs...)
}
