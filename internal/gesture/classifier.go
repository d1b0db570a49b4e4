// Package gesture turns per-frame hand landmarks into the pinch signal
// that drives drawing, erasing and editing.
package gesture

import (
	"github.com/ayusman/airsketch/internal/detector/landmark"
	"github.com/ayusman/airsketch/internal/geom"
)

// PinchThreshold is the thumb-tip to index-tip distance, in normalized
// frame units, below which the hand counts as pinching.
const PinchThreshold = 0.05

// Signal is the classifier output for one frame.
type Signal struct {
	// HandPresent is false when no hand was detected ("idle").
	HandPresent bool
	// Pinching reports whether the thumb and index tips are touching.
	Pinching bool
	// Distance is the normalized pinch distance. Zero when idle.
	Distance float64
	// Target is the index fingertip in device pixels. Zero when idle.
	Target geom.Point
}

// Idle is the signal produced when no hand is in view.
var Idle = Signal{}

// Classifier maps landmarks into canvas space.
type Classifier struct {
	// Threshold overrides PinchThreshold when positive.
	Threshold float64
}

// Classify inspects the first detected hand. The canvas size is the
// device-pixel size of the drawing surface.
func (c Classifier) Classify(hands []landmark.Hand, canvasWidth, canvasHeight float64) Signal {
	if len(hands) == 0 {
		return Idle
	}

	threshold := c.Threshold
	if threshold <= 0 {
		threshold = PinchThreshold
	}

	hand := &hands[0]
	dist := hand.PlanarDistance(landmark.ThumbTip, landmark.IndexTip)
	tip := hand.Points[landmark.IndexTip]

	return Signal{
		HandPresent: true,
		Pinching:    dist < threshold,
		Distance:    dist,
		Target:      geom.Point{X: tip.X * canvasWidth, Y: tip.Y * canvasHeight},
	}
}
