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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aamcrae/config"
)

func parse(t *testing.T, text string) *config.Config {
	t.Helper()
	f := filepath.Join(t.TempDir(), "encoder.conf")
	if err := os.WriteFile(f, []byte(text), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	conf, err := config.ParseFile(f)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return conf
}

func TestConfig(t *testing.T) {
	conf := parse(t, `[spindle]
encoder=23,24
resolution=1200
poll=50ms
backend=sysfs
invert=true
`)
	c, err := Config(conf, "spindle")
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if c.Name != "spindle" {
		t.Errorf("name %s", c.Name)
	}
	if c.PhaseA != 23 || c.PhaseB != 24 {
		t.Errorf("phases %d,%d, want 23,24", c.PhaseA, c.PhaseB)
	}
	if c.Resolution != 1200 {
		t.Errorf("resolution %d, want 1200", c.Resolution)
	}
	if c.Poll != 50*time.Millisecond {
		t.Errorf("poll %v, want 50ms", c.Poll)
	}
	if c.Backend != Sysfs {
		t.Errorf("backend %s, want sysfs", c.Backend)
	}
	if !c.Invert {
		t.Errorf("invert not set")
	}
}

func TestConfigDefaults(t *testing.T) {
	conf := parse(t, `[spindle]
encoder=5,6
resolution=1024
`)
	c, err := Config(conf, "spindle")
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if c.Poll != defaultPoll {
		t.Errorf("poll %v, want %v", c.Poll, defaultPoll)
	}
	if c.Backend != Chardev {
		t.Errorf("backend %s, want chardev", c.Backend)
	}
	if c.Invert {
		t.Errorf("invert set")
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing section", "[other]\nencoder=1,2\nresolution=100\n"},
		{"missing encoder", "[spindle]\nresolution=100\n"},
		{"missing resolution", "[spindle]\nencoder=1,2\n"},
		{"zero resolution", "[spindle]\nencoder=1,2\nresolution=0\n"},
		{"negative resolution", "[spindle]\nencoder=1,2\nresolution=-5\n"},
		{"bad poll", "[spindle]\nencoder=1,2\nresolution=100\npoll=fast\n"},
		{"zero poll", "[spindle]\nencoder=1,2\nresolution=100\npoll=0s\n"},
		{"bad backend", "[spindle]\nencoder=1,2\nresolution=100\nbackend=i2c\n"},
		{"bad invert", "[spindle]\nencoder=1,2\nresolution=100\ninvert=maybe\n"},
	}
	for _, tc := range tests {
		conf := parse(t, tc.text)
		if _, err := Config(conf, "spindle"); err == nil {
			t.Errorf("%s: no error", tc.name)
		}
	}
}
