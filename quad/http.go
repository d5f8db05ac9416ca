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

// HTTP server for dial images
package quad

import (
	"fmt"
	"image/jpeg"
	"log"
	"math"
	"net/http"

	"github.com/fogleman/gg"
)

const dialSize = 400
const dialMid = dialSize / 2
const dialRadius = dialSize/2 - 20

// Needle colours, cycled through the encoders.
var needles = [][3]float64{
	{0, 0, 1},
	{1, 0, 1},
	{0, 0.6, 0},
}

// DialServer serves a JPEG dial image showing the current shaft angle
// of each encoder on /dial.jpg.
func DialServer(port int, encs []*Encoder) {
	http.Handle("/dial.jpg", http.HandlerFunc(handler(encs)))
	url := fmt.Sprintf(":%d", port)
	log.Printf("Starting server on %s", url)
	server := &http.Server{Addr: url}
	log.Fatal(server.ListenAndServe())
}

func handler(encs []*Encoder) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		c := gg.NewContext(dialSize, dialSize)
		c.SetRGB(1, 1, 1)
		c.Clear()
		drawFace(c)
		for i, e := range encs {
			n := needles[i%len(needles)]
			c.SetRGB(n[0], n[1], n[2])
			drawNeedle(c, e, dialRadius-15, 4)
		}
		err := jpeg.Encode(w, c.Image(), nil)
		if err != nil {
			log.Printf("Error writing image: %v\n", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

// drawFace draws the dial outline with a tick every 30 degrees.
func drawFace(c *gg.Context) {
	c.SetRGB(0, 0, 0)
	c.SetLineWidth(2)
	c.DrawCircle(dialMid, dialMid, dialRadius)
	c.Stroke()
	for deg := 0; deg < 360; deg += 30 {
		radians := float64(deg) * math.Pi / 180
		x := math.Sin(radians)
		y := -math.Cos(radians)
		c.DrawLine(dialMid+x*(dialRadius-10), dialMid+y*(dialRadius-10),
			dialMid+x*dialRadius, dialMid+y*dialRadius)
		c.Stroke()
	}
}

// drawNeedle draws the needle for one encoder, with 0 degrees at the
// top of the dial and the angle increasing clockwise.
func drawNeedle(c *gg.Context, e *Encoder, length, width int) {
	_, angle := e.Location()
	radians := angle * math.Pi / 180
	x := float64(length)*math.Sin(radians) + dialMid
	y := dialMid - float64(length)*math.Cos(radians)
	c.SetLineWidth(float64(width))
	c.DrawLine(dialMid, dialMid, x, y)
	c.Stroke()
}
