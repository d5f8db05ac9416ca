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
	"fmt"
	"strconv"
	"time"

	"github.com/aamcrae/config"
	sysfs "github.com/aamcrae/gpio"

	"github.com/aamcrae/encoder/io"
)

// Default status poll interval.
const defaultPoll = 100 * time.Millisecond

// GPIO backends.
const (
	Chardev = "chardev" // GPIO character device (supports internal pull-ups)
	Sysfs   = "sysfs"   // sysfs fallback (external pull-ups required)
)

// Configuration data for one encoder, read from a configuration file.
type EncoderConfig struct {
	Name       string
	PhaseA     int
	PhaseB     int
	Resolution int
	Poll       time.Duration
	Backend    string
	Invert     bool
}

// input is the pin surface shared by the chardev and sysfs backends.
type input interface {
	IO
	Close()
}

// Tracker combines the I/O for an encoder with its decoder.
// A config for each tracked encoder is parsed from a configuration file.
type Tracker struct {
	Encoder *Encoder
	Config  *EncoderConfig
	phaseA  input
	phaseB  input
}

// Config reads and validates an EncoderConfig from a config file section.
// Sample config:
//  [spindle]               # name of the tracked shaft
//  encoder=23,24           # GPIOs for phase A and phase B
//  resolution=1200         # counted steps per revolution
//  poll=100ms              # status poll interval (optional)
//  backend=chardev         # chardev or sysfs (optional)
//  invert=false            # reverse direction (optional)
// The resolution is the number of phase A edges in one revolution,
// which is twice the rated pulses per revolution of the encoder,
// since both edges of each pulse are counted.
func Config(conf *config.Config, name string) (*EncoderConfig, error) {
	s := conf.GetSection(name)
	if s == nil {
		return nil, fmt.Errorf("no config for %s", name)
	}
	var err error
	var c EncoderConfig
	c.Name = name
	n, err := s.Parse("encoder", "%d,%d", &c.PhaseA, &c.PhaseB)
	if err != nil {
		return nil, fmt.Errorf("encoder: %v", err)
	}
	if n != 2 {
		return nil, fmt.Errorf("invalid encoder arguments")
	}
	n, err = s.Parse("resolution", "%d", &c.Resolution)
	if err != nil {
		return nil, fmt.Errorf("resolution: %v", err)
	}
	if n != 1 {
		return nil, fmt.Errorf("resolution: argument count")
	}
	if c.Resolution <= 0 {
		return nil, fmt.Errorf("resolution: must be positive")
	}
	c.Poll = defaultPoll
	if p, err := s.GetArg("poll"); err == nil {
		c.Poll, err = time.ParseDuration(p)
		if err != nil {
			return nil, fmt.Errorf("poll: %v", err)
		}
		if c.Poll <= 0 {
			return nil, fmt.Errorf("poll: must be positive")
		}
	}
	c.Backend = Chardev
	if b, err := s.GetArg("backend"); err == nil {
		if b != Chardev && b != Sysfs {
			return nil, fmt.Errorf("backend: unknown backend %s", b)
		}
		c.Backend = b
	}
	if v, err := s.GetArg("invert"); err == nil {
		c.Invert, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invert: %v", err)
		}
	}
	return &c, nil
}

// NewTracker initialises the I/O and the Encoder from the
// encoder configuration.
// Phase A is configured for edge detection on both transitions, and
// phase B as a plain input. With the chardev backend, both lines get
// the internal pull-up enabled, since the encoder's open-collector
// outputs can only pull the lines low; the sysfs interface cannot
// program the pull-ups, so that backend relies on external resistors.
func NewTracker(c *EncoderConfig) (*Tracker, error) {
	t := new(Tracker)
	t.Config = c
	var err error
	switch c.Backend {
	case Sysfs:
		t.phaseA, t.phaseB, err = sysfsPins(c.PhaseA, c.PhaseB)
	default:
		t.phaseA, t.phaseB, err = chardevPins(c.PhaseA, c.PhaseB)
	}
	if err != nil {
		return nil, err
	}
	t.Encoder, err = NewEncoder(c.Name, t.phaseA, t.phaseB, c.Resolution)
	if err != nil {
		t.Close()
		return nil, err
	}
	t.Encoder.Invert = c.Invert
	return t, nil
}

// Start begins tracking the shaft position.
func (t *Tracker) Start() {
	t.Encoder.Start()
}

// Close releases the I/O resources.
func (t *Tracker) Close() {
	if t.phaseA != nil {
		t.phaseA.Close()
	}
	if t.phaseB != nil {
		t.phaseB.Close()
	}
}

// chardevPins opens the phase inputs via the GPIO character device.
func chardevPins(a, b int) (input, input, error) {
	pa, err := io.Pin(a)
	if err != nil {
		return nil, nil, fmt.Errorf("phase A %d: %v", a, err)
	}
	if err := pa.Bias(io.PULLUP); err != nil {
		pa.Close()
		return nil, nil, fmt.Errorf("phase A %d: %v", a, err)
	}
	if err := pa.Edge(io.BOTH); err != nil {
		pa.Close()
		return nil, nil, fmt.Errorf("phase A %d: %v", a, err)
	}
	pb, err := io.Pin(b)
	if err != nil {
		pa.Close()
		return nil, nil, fmt.Errorf("phase B %d: %v", b, err)
	}
	if err := pb.Bias(io.PULLUP); err != nil {
		pa.Close()
		pb.Close()
		return nil, nil, fmt.Errorf("phase B %d: %v", b, err)
	}
	return pa, pb, nil
}

// sysfsPins opens the phase inputs via the sysfs GPIO interface.
func sysfsPins(a, b int) (input, input, error) {
	pa, err := sysfs.Pin(a)
	if err != nil {
		return nil, nil, fmt.Errorf("phase A %d: %v", a, err)
	}
	if err := pa.Edge(sysfs.BOTH); err != nil {
		pa.Close()
		return nil, nil, fmt.Errorf("phase A %d: %v", a, err)
	}
	pb, err := sysfs.Pin(b)
	if err != nil {
		pa.Close()
		return nil, nil, fmt.Errorf("phase B %d: %v", b, err)
	}
	return pa, pb, nil
}
