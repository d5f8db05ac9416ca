// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Quadrature encoder driver.

package quad

import (
	"fmt"
	"log"
	"sync/atomic"
)

// IO provides a method to read an input line.
// The phase A input is expected to have edge detection enabled, so that
// Get blocks until the line transitions and returns the new level.
// The phase B input has no edge detection, so Get returns the
// instantaneous level of the line.
type IO interface {
	Get() (int, error)
}

// Encoder decodes the two phase outputs of an incremental rotary encoder
// into a signed step count, and derives whole rotations and the angle
// within the current rotation from it.
// Each transition of phase A counts as one step, with the direction
// taken from the level of phase B at the time of the transition:
// A rising with B low is clockwise, as is A falling with B high.
// The same direction table is applied on both polarities of A, and
// phase B's own edges are never counted, so the configured resolution
// must be the number of phase A edges per revolution - twice the
// rated pulses per revolution of the device.
// The step count is maintained with atomic operations so that readers
// always observe a complete value, never a partial update from the
// edge service goroutine.
type Encoder struct {
	Name       string
	Invert     bool // Reverse direction (phases wired swapped)
	phaseA     IO
	phaseB     IO
	resolution int64
	position   int64 // Accumulated signed step count
	edges      int64 // Number of edge events serviced
}

// NewEncoder creates a new Encoder. No hardware is touched; the inputs
// are only read once Start is called.
// resolution is the number of counted steps in a full revolution, and
// must be positive.
func NewEncoder(name string, phaseA, phaseB IO, resolution int) (*Encoder, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%s: resolution must be positive (%d)", name, resolution)
	}
	e := new(Encoder)
	e.Name = name
	e.phaseA = phaseA
	e.phaseB = phaseB
	e.resolution = int64(resolution)
	return e, nil
}

// Start begins servicing phase A edge events in a background goroutine.
func (e *Encoder) Start() {
	go e.driver()
}

// Position returns the accumulated step count since startup as an
// atomic snapshot with respect to the edge service goroutine.
func (e *Encoder) Position() int64 {
	return atomic.LoadInt64(&e.position)
}

// Rotations returns the number of whole revolutions moved since startup.
// The division truncates toward zero, so partial revolutions are
// discarded symmetrically for both directions.
func (e *Encoder) Rotations() int64 {
	return e.Position() / e.resolution
}

// Angle returns the position within the current revolution as
// degrees in the range [0, 360).
func (e *Encoder) Angle() float64 {
	return e.angle(e.Position())
}

// Location returns the rotation count and angle derived from a
// single snapshot of the position.
func (e *Encoder) Location() (int64, float64) {
	p := e.Position()
	return p / e.resolution, e.angle(p)
}

// Edges returns the number of edge events serviced, as a health
// indicator for monitoring.
func (e *Encoder) Edges() int64 {
	return atomic.LoadInt64(&e.edges)
}

// Resolution returns the configured steps per revolution.
func (e *Encoder) Resolution() int {
	return int(e.resolution)
}

// driver is the main goroutine servicing the encoder.
// It blocks until phase A transitions, reads the level of phase B,
// and applies the decoded step. Edge events raised while a step is
// being applied are queued by the kernel, not lost, and are picked
// up on the next Get.
func (e *Encoder) driver() {
	for {
		a, err := e.phaseA.Get()
		if err != nil {
			log.Fatalf("%s: phase A: %v", e.Name, err)
		}
		b, err := e.phaseB.Get()
		if err != nil {
			log.Fatalf("%s: phase B: %v", e.Name, err)
		}
		e.step(a, b)
	}
}

// step applies one phase A transition to the position.
// Clockwise when the phases differ after the transition (A high with
// B low, or A low with B high), counter-clockwise otherwise.
func (e *Encoder) step(a, b int) {
	d := int64(-1)
	if (a != 0) != (b != 0) {
		d = 1
	}
	if e.Invert {
		d = -d
	}
	atomic.AddInt64(&e.position, d)
	atomic.AddInt64(&e.edges, 1)
}

// angle converts a raw position to degrees in [0, 360).
func (e *Encoder) angle(p int64) float64 {
	r := p % e.resolution
	if r < 0 {
		r += e.resolution
	}
	return float64(r) * 360 / float64(e.resolution)
}
