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

package io

import (
	"testing"
	"unsafe"
)

// The request structures are handed straight to the kernel, so their
// sizes must match the sizes encoded in the ioctl request numbers.
func TestRequestSizes(t *testing.T) {
	if s := unsafe.Sizeof(handleRequest{}); s != 364 {
		t.Errorf("gpiohandle_request size %d, want 364", s)
	}
	if s := unsafe.Sizeof(eventRequest{}); s != 48 {
		t.Errorf("gpioevent_request size %d, want 48", s)
	}
	if s := unsafe.Sizeof(handleData{}); s != 64 {
		t.Errorf("gpiohandle_data size %d, want 64", s)
	}
}

func TestEventLevel(t *testing.T) {
	rec := func(id uint32) []byte {
		b := make([]byte, eventRecordSize)
		b[8] = byte(id)
		b[9] = byte(id >> 8)
		b[10] = byte(id >> 16)
		b[11] = byte(id >> 24)
		return b
	}
	v, err := eventLevel(rec(idRising), 16)
	if err != nil || v != 1 {
		t.Errorf("rising edge: got %d, %v", v, err)
	}
	v, err = eventLevel(rec(idFalling), 16)
	if err != nil || v != 0 {
		t.Errorf("falling edge: got %d, %v", v, err)
	}
	// 12 byte records occur on platforms with 4 byte u64 alignment.
	v, err = eventLevel(rec(idRising), 12)
	if err != nil || v != 1 {
		t.Errorf("12 byte record: got %d, %v", v, err)
	}
	if _, err = eventLevel(rec(99), 16); err == nil {
		t.Errorf("unknown event id not rejected")
	}
	if _, err = eventLevel(rec(idRising), 8); err == nil {
		t.Errorf("short record not rejected")
	}
}
