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

// Simulator encoder program.
// Generates the quadrature waveform of a shaft following a scripted
// rotation profile, runs the real decoder against it, and checks the
// tracked position against the profile.

package main

import (
	"flag"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/aamcrae/encoder/quad"
)

var port = flag.Int("port", 8080, "Web server port number")
var resolution = flag.Int("resolution", 1200, "Steps per revolution")
var delay = flag.Duration("delay", 250*time.Microsecond, "Delay per quadrature state change")

// Rotation profile, as signed step counts (phase A edges).
var profile = []struct {
	name  string
	steps int
}{
	{"spin cw", 3000},
	{"reverse", -750},
	{"jitter cw", 3},
	{"jitter ccw", -3},
	{"spin ccw", -4000},
	{"spin cw", 1750},
}

// Steady quadrature state sequence in the clockwise direction.
var quadSeq = [][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// SimEncoder simulates the two phase outputs of a rotary encoder.
// Phase A is delivered as blocking edge events over a channel, and
// phase B as an instantaneous level, matching the I/O behaviour of
// the edge-configured and plain GPIO pins.
type SimEncoder struct {
	aChan    chan int
	b        int32
	idx      int
	lastA    int
	expected int64 // True position in steps
	edges    int64 // Total edge events generated
}

type phaseA struct{ s *SimEncoder }

func (p phaseA) Get() (int, error) { return <-p.s.aChan, nil }

type phaseB struct{ s *SimEncoder }

func (p phaseB) Get() (int, error) { return int(atomic.LoadInt32(&p.s.b)), nil }

func main() {
	flag.Parse()
	sim := &SimEncoder{aChan: make(chan int, 10)}
	enc, err := quad.NewEncoder("sim", phaseA{sim}, phaseB{sim}, *resolution)
	if err != nil {
		log.Fatalf("sim: %v", err)
	}
	enc.Start()
	go quad.DialServer(*port, []*quad.Encoder{enc})
	for {
		for _, seg := range profile {
			sim.Move(seg.steps)
			sim.settle(enc)
			turns, angle := enc.Location()
			status := "ok"
			if enc.Position() != sim.expected {
				status = fmt.Sprintf("MISMATCH (true %d)", sim.expected)
			}
			fmt.Printf("%-10s: position %d, rotations %d, angle %.3f - %s\n",
				seg.name, enc.Position(), turns, angle, status)
		}
	}
}

// Move rotates the simulated shaft by the given number of steps,
// clockwise when positive.
// The shaft advances through the quadrature state sequence; phase B
// level changes are applied silently, and each phase A change is
// delivered as an edge event.
func (s *SimEncoder) Move(steps int) {
	dir := 1
	if steps < 0 {
		dir = -1
		steps = -steps
	}
	for n := 0; n < steps; {
		if s.advance(dir) {
			n++
		}
		time.Sleep(*delay)
	}
}

// advance moves the shaft one quadrature state and reports whether
// a phase A edge was generated.
func (s *SimEncoder) advance(dir int) bool {
	s.idx = (s.idx + dir + len(quadSeq)) % len(quadSeq)
	st := quadSeq[s.idx]
	atomic.StoreInt32(&s.b, int32(st[1]))
	if st[0] == s.lastA {
		return false
	}
	s.lastA = st[0]
	s.expected += int64(dir)
	s.edges++
	s.aChan <- st[0]
	return true
}

// settle waits for the decoder to service all generated edges.
func (s *SimEncoder) settle(enc *quad.Encoder) {
	for i := 0; i < 1000; i++ {
		if enc.Edges() == s.edges {
			return
		}
		time.Sleep(time.Millisecond)
	}
	log.Fatalf("sim: decoder stalled (%d of %d edges)", enc.Edges(), s.edges)
}
