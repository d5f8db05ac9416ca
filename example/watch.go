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

// Program to demonstrate watching a quadrature encoder

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/encoder/io"
	"github.com/aamcrae/encoder/quad"
)

var phaseA = flag.Int("a", 23, "GPIO pin for encoder phase A")
var phaseB = flag.Int("b", 24, "GPIO pin for encoder phase B")
var resolution = flag.Int("resolution", 1200, "Steps per revolution")

func main() {
	flag.Parse()
	pa, err := io.Pin(*phaseA)
	if err != nil {
		log.Fatalf("Pin %d: %v", *phaseA, err)
	}
	defer pa.Close()
	if err := pa.Bias(io.PULLUP); err != nil {
		log.Fatalf("Pin %d: bias: %v", *phaseA, err)
	}
	if err := pa.Edge(io.BOTH); err != nil {
		log.Fatalf("Pin %d: edge BOTH: %v", *phaseA, err)
	}
	pb, err := io.Pin(*phaseB)
	if err != nil {
		log.Fatalf("Pin %d: %v", *phaseB, err)
	}
	defer pb.Close()
	if err := pb.Bias(io.PULLUP); err != nil {
		log.Fatalf("Pin %d: bias: %v", *phaseB, err)
	}
	e, err := quad.NewEncoder("watch", pa, pb, *resolution)
	if err != nil {
		log.Fatalf("encoder: %v", err)
	}
	e.Start()
	for {
		turns, angle := e.Location()
		log.Printf("position %d, rotations %d, angle %.3f\n", e.Position(), turns, angle)
		time.Sleep(time.Second)
	}
}
