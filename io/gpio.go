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

// Package io manages GPIO input pins via the Linux GPIO character device.

package io

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Gpio represents one GPIO input line.
// The line is requested from the GPIO character device, which allows
// the internal pull resistor to be programmed - necessary when the
// device driving the line has an open-collector output that can only
// pull the line low.
// When an edge mode is set, the line is requested as an event source,
// and Get blocks until the next transition, returning the new level.
// With no edge mode, Get returns the instantaneous level.
type Gpio struct {
	number int
	edge   int
	bias   int
	fd     int // line or event fd
	buf    [eventRecordSize]byte
	pollfd []unix.PollFd
}

// Pin opens a GPIO line as an input with no bias or edge detection set.
func Pin(gpio int) (*Gpio, error) {
	g := new(Gpio)
	g.number = gpio
	g.fd = -1
	if err := g.request(); err != nil {
		return nil, err
	}
	return g, nil
}

// Bias sets the pull resistor configuration on the line.
func (g *Gpio) Bias(b int) error {
	switch b {
	case NOPULL, PULLUP, PULLDOWN:
	default:
		return fmt.Errorf("gpio%d: unknown bias", g.number)
	}
	g.bias = b
	return g.request()
}

// Edge sets the edge detection on the line.
func (g *Gpio) Edge(e int) error {
	switch e {
	case NONE, RISING, FALLING, BOTH:
	default:
		return fmt.Errorf("gpio%d: unknown edge", g.number)
	}
	g.edge = e
	return g.request()
}

// Get returns the current value of the line.
// If edge detection is enabled, Get waits for the next transition and
// returns the level of the line after it.
func (g *Gpio) Get() (int, error) {
	if g.edge != NONE {
		// Wait for the next event record.
		g.pollfd[0].Revents = 0
		_, err := unix.Poll(g.pollfd, -1)
		if err != nil {
			return 0, err
		}
		n, err := unix.Read(g.fd, g.buf[:])
		if err != nil {
			return 0, err
		}
		v, err := eventLevel(g.buf[:], n)
		if err != nil {
			return 0, fmt.Errorf("gpio%d: %v", g.number, err)
		}
		return v, nil
	}
	var data handleData
	if err := ioctl(g.fd, getLineValuesIoctl, unsafe.Pointer(&data)); err != nil {
		return 0, fmt.Errorf("gpio%d: get values: %v", g.number, err)
	}
	return int(data.values[0]), nil
}

// Close releases the line.
func (g *Gpio) Close() {
	if g.fd >= 0 {
		unix.Close(g.fd)
		g.fd = -1
	}
}

// request obtains a line or event file descriptor for the current
// edge and bias settings, releasing any previous one. The character
// device fixes the flags at request time, so changing the settings
// requires the line to be re-requested.
func (g *Gpio) request() error {
	flags := uint32(reqInput)
	switch g.bias {
	case PULLUP:
		flags |= reqPullUp
	case PULLDOWN:
		flags |= reqPullDown
	}
	chip, err := unix.Open(Chip, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("%s: %v", Chip, err)
	}
	defer unix.Close(chip)
	// Release the old request first; the kernel holds the line
	// exclusively while a request is open.
	g.Close()
	if g.edge == NONE {
		req := handleRequest{flags: flags, lines: 1, consumerLabel: label()}
		req.lineOffsets[0] = uint32(g.number)
		if err := ioctl(chip, getLineHandleIoctl, unsafe.Pointer(&req)); err != nil {
			return fmt.Errorf("gpio%d: line request: %v", g.number, err)
		}
		g.fd = int(req.fd)
	} else {
		req := eventRequest{lineOffset: uint32(g.number), handleFlags: flags, consumerLabel: label()}
		switch g.edge {
		case RISING:
			req.eventFlags = evRising
		case FALLING:
			req.eventFlags = evFalling
		case BOTH:
			req.eventFlags = evRising | evFalling
		}
		if err := ioctl(chip, getLineEventIoctl, unsafe.Pointer(&req)); err != nil {
			return fmt.Errorf("gpio%d: event request: %v", g.number, err)
		}
		g.fd = int(req.fd)
	}
	g.pollfd = []unix.PollFd{{Fd: int32(g.fd), Events: unix.POLLIN | unix.POLLERR}}
	return nil
}
