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

// Package io common constants and functions

package io

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Edge
const (
	NONE    = iota // Default
	RISING  = iota
	FALLING = iota
	BOTH    = iota
)

// Bias (pull resistor configuration)
const (
	NOPULL   = iota // Default, leave bias as-is
	PULLUP   = iota
	PULLDOWN = iota
)

// Chip is the GPIO character device used when requesting lines.
// This can be overridden before any pins are opened.
var Chip = "/dev/gpiochip0"

// consumer is the label attached to requested lines, visible
// in utilities such as gpioinfo.
const consumer = "encoder"

// Line request flags and event values from <linux/gpio.h>.
const (
	reqInput    = 1 << 0 // GPIOHANDLE_REQUEST_INPUT
	reqPullUp   = 1 << 5 // GPIOHANDLE_REQUEST_BIAS_PULL_UP
	reqPullDown = 1 << 6 // GPIOHANDLE_REQUEST_BIAS_PULL_DOWN

	evRising  = 1 << 0 // GPIOEVENT_REQUEST_RISING_EDGE
	evFalling = 1 << 1 // GPIOEVENT_REQUEST_FALLING_EDGE

	idRising  = 1 // GPIOEVENT_EVENT_RISING_EDGE
	idFalling = 2 // GPIOEVENT_EVENT_FALLING_EDGE
)

// Ioctl request numbers, precomputed from the _IOWR macros for
// the structure sizes below. The structures must match the kernel
// ABI exactly, since they are passed directly to ioctl.
const (
	getLineHandleIoctl = 0xC16CB403 // GPIO_GET_LINEHANDLE_IOCTL
	getLineEventIoctl  = 0xC030B404 // GPIO_GET_LINEEVENT_IOCTL
	getLineValuesIoctl = 0xC040B408 // GPIOHANDLE_GET_LINE_VALUES_IOCTL
)

// struct gpiohandle_request (364 bytes)
type handleRequest struct {
	lineOffsets   [64]uint32
	flags         uint32
	defaultValues [64]uint8
	consumerLabel [32]byte
	lines         uint32
	fd            int32
}

// struct gpioevent_request (48 bytes)
type eventRequest struct {
	lineOffset    uint32
	handleFlags   uint32
	eventFlags    uint32
	consumerLabel [32]byte
	fd            int32
}

// struct gpiohandle_data
type handleData struct {
	values [64]uint8
}

// eventRecordSize is the largest encoding of struct gpioevent_data
// (u64 timestamp, u32 id); the structure is 12 or 16 bytes depending
// on the alignment of u64 on the platform.
const eventRecordSize = 16

// ioctl issues an ioctl request with a pointer argument.
func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// eventLevel decodes one gpioevent_data record and returns the level
// of the line after the transition (rising edge = 1, falling edge = 0).
func eventLevel(buf []byte, n int) (int, error) {
	// The id field follows the 8 byte timestamp.
	if n < 12 {
		return 0, fmt.Errorf("short event record (%d bytes)", n)
	}
	id := uint32(buf[8]) | uint32(buf[9])<<8 | uint32(buf[10])<<16 | uint32(buf[11])<<24
	switch id {
	case idRising:
		return 1, nil
	case idFalling:
		return 0, nil
	}
	return 0, fmt.Errorf("unknown event id %d", id)
}

// label returns the consumer label as the fixed size byte array
// used in the request structures.
func label() [32]byte {
	var b [32]byte
	copy(b[:], consumer)
	return b
}
