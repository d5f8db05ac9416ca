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

package quad

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestReport(t *testing.T) {
	e, _, _ := newTestEncoder(t, 1024)
	atomic.StoreInt64(&e.position, 2058)
	var b bytes.Buffer
	r := NewReporter(e, &b, time.Second)
	r.Report()
	want := "test: position 2058, rotations 2, angle 3.516\n"
	if b.String() != want {
		t.Errorf("got %q, want %q", b.String(), want)
	}
}

func TestReporterRun(t *testing.T) {
	e, _, _ := newTestEncoder(t, 1024)
	var b syncBuffer
	r := NewReporter(e, &b, time.Millisecond)
	go r.Run()
	for i := 0; i < 1000 && b.lines() < 3; i++ {
		time.Sleep(time.Millisecond)
	}
	r.Stop()
	if b.lines() < 3 {
		t.Errorf("reporter produced %d lines", b.lines())
	}
}

// syncBuffer serialises writes from the reporter goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Count(b.buf.String(), "\n")
}
