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

// Periodic status reporting.

package quad

import (
	"fmt"
	"io"
	"time"
)

// Reporter periodically samples an Encoder and writes a textual status
// line to a writer, typically stdout or a serial port.
type Reporter struct {
	enc      *Encoder
	w        io.Writer
	interval time.Duration
	stopChan chan bool
}

// NewReporter creates a Reporter sampling at the given interval.
func NewReporter(e *Encoder, w io.Writer, interval time.Duration) *Reporter {
	r := new(Reporter)
	r.enc = e
	r.w = w
	r.interval = interval
	r.stopChan = make(chan bool)
	return r
}

// Run samples and reports until Stop is called.
func (r *Reporter) Run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.Report()
		}
	}
}

// Stop terminates a running Reporter.
func (r *Reporter) Stop() {
	r.stopChan <- true
}

// Report writes one status line from a single snapshot of the position.
func (r *Reporter) Report() {
	e := r.enc
	p := e.Position()
	fmt.Fprintf(r.w, "%s: position %d, rotations %d, angle %.3f\n",
		e.Name, p, p/e.resolution, e.angle(p))
}
