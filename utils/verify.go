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

// Resolution verification utility.
// The configured resolution must match the number of counted steps in
// one physical revolution; this utility counts the steps over manually
// performed whole turns so the configuration can be checked against
// the actual device.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aamcrae/config"

	"github.com/aamcrae/encoder/quad"
)

var configFile = flag.String("config", "", "Configuration file")
var section = flag.String("encoder", "spindle", "Encoder to verify")

func main() {
	flag.Parse()
	conf, err := config.ParseFile(*configFile)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	c, err := quad.Config(conf, *section)
	if err != nil {
		log.Fatalf("%s: %v", *section, err)
	}
	t, err := quad.NewTracker(c)
	if err != nil {
		log.Fatalf("%s: %v", *section, err)
	}
	defer t.Close()
	t.Start()
	enc := t.Encoder
	reader := bufio.NewReader(os.Stdin)
	base := enc.Position()
	fmt.Printf("%s: configured resolution is %d steps per revolution\n", c.Name, c.Resolution)
	fmt.Println("Rotate the shaft exactly one full turn, then press Enter")
	for {
		fmt.Print("Press Enter after a full turn, or a command ('help' for help) ")
		text, _ := reader.ReadString('\n')
		text = strings.TrimSuffix(text, "\n")
		switch text {
		case "help":
			fmt.Println("  help - print help")
			fmt.Println("  <Enter> - measure the steps since the last mark")
			fmt.Println("  r - reset the mark without measuring")
			fmt.Println("  q - quit")
		case "q":
			return
		case "r":
			base = enc.Position()
			fmt.Println("Mark reset")
		case "":
			pos := enc.Position()
			d := pos - base
			if d < 0 {
				d = -d
			}
			base = pos
			if d == 0 {
				fmt.Println("No movement detected")
				continue
			}
			errPc := float64(d-int64(c.Resolution)) * 100 / float64(c.Resolution)
			fmt.Printf("Counted %d steps (configured %d, error %+.2f%%)\n",
				d, c.Resolution, errPc)
		default:
			fmt.Println("Unrecognised input")
		}
	}
}
