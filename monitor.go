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

// Shaft position monitor program

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/aamcrae/config"

	"github.com/aamcrae/encoder/quad"
)

var configFile = flag.String("config", "/etc/encoder.conf", "Configuration file")
var encoders = flag.String("encoders", "spindle", "Comma separated list of encoders to track")
var port = flag.Int("port", 8080, "Web server port number")
var serial = flag.String("serial", "", "Serial device for status output (default stdout)")
var baud = flag.Int("baud", 115200, "Serial baud rate")

func main() {
	flag.Parse()
	conf, err := config.ParseFile(*configFile)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	var out io.Writer = os.Stdout
	if *serial != "" {
		s, err := openSerial(*serial, *baud)
		if err != nil {
			log.Fatalf("%s: %v", *serial, err)
		}
		defer s.Close()
		out = s
	}
	var encs []*quad.Encoder
	for _, name := range strings.Split(*encoders, ",") {
		c, err := quad.Config(conf, name)
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		t, err := quad.NewTracker(c)
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		defer t.Close()
		t.Start()
		go quad.NewReporter(t.Encoder, out, c.Poll).Run()
		encs = append(encs, t.Encoder)
		log.Printf("%s: tracking on GPIO %d/%d, %d steps per revolution",
			name, c.PhaseA, c.PhaseB, c.Resolution)
	}
	quad.DialServer(*port, encs)
}
