// Package landmark holds the MediaPipe hand model: landmark indices, the
// per-hand record and synthetic hands for tests.
package landmark

import "math"

// Hand landmark indices following the MediaPipe hand model.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	Count = 21
)

// Point3D is a landmark position. X and Y are normalized to [0,1] of the
// frame; Z is relative depth and unused by the drawing engine.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand holds the 21 landmarks of one detected hand.
type Hand struct {
	Points     [Count]Point3D `json:"points"`
	Handedness string         `json:"handedness"` // "Left" or "Right"
	Score      float64        `json:"score"`
}

// PlanarDistance returns the distance between two landmarks ignoring depth.
func (h *Hand) PlanarDistance(i, j int) float64 {
	a, b := h.Points[i], h.Points[j]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Mirror flips the hand horizontally, turning a raw camera view into the
// selfie view the user sees on screen.
func (h Hand) Mirror() Hand {
	for i := range h.Points {
		h.Points[i].X = 1 - h.Points[i].X
	}
	switch h.Handedness {
	case "Left":
		h.Handedness = "Right"
	case "Right":
		h.Handedness = "Left"
	}
	return h
}
