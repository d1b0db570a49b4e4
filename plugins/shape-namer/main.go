// Package main provides an offline shape namer. It reads a naming request
// on stdin and answers with the primitives its strokes resemble, so
// suggestions work without a naming service.
//
// Use it with naming.command in config.yaml.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ayusman/airsketch/internal/recognize"
	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/suggest"
)

// squareSlack is how far from 1 the aspect ratio may be for "square".
const squareSlack = 0.15

func main() {
	var req suggest.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(suggest.Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	writeResponse(suggest.Response{Suggestions: Names(req)})
}

// Names labels each stroke in req, most recent first, without duplicates.
func Names(req suggest.Request) []string {
	r := recognize.New(recognize.DefaultConfig())
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] && len(names) < suggest.MaxSuggestions {
			seen[n] = true
			names = append(names, n)
		}
	}

	for i := len(req.Strokes) - 1; i >= 0; i-- {
		st := denormalize(req.Strokes[i], req.Width, req.Height)
		sh, ok := r.Detect(&st, 1)
		if !ok {
			add("line")
			continue
		}
		switch sh.Type {
		case scene.Circle:
			add("circle")
		case scene.Rect:
			if math.Abs(sh.W/sh.H-1) < squareSlack {
				add("square")
			}
			add("rectangle")
		case scene.Triangle:
			add("triangle")
		}
	}
	return names
}

// denormalize maps payload points back to canvas pixels.
func denormalize(p suggest.StrokePayload, w, h float64) scene.Stroke {
	st := scene.Stroke{Color: p.Color, Size: p.Size}
	for _, pt := range p.Points {
		st.Points = append(st.Points, scene.StrokePoint{X: pt[0] * w, Y: pt[1] * h})
	}
	return st
}

func writeResponse(resp suggest.Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
