package landmark

// Pinch returns a right hand whose index fingertip sits at the
// normalized position (x, y) with the thumb tip touching it.
func Pinch(x, y float64) Hand {
	return handAt(x, y, 0.01)
}

// Open returns a right hand pointing at (x, y) with the thumb
// held well away from the index fingertip.
func Open(x, y float64) Hand {
	return handAt(x, y, 0.15)
}

// handAt lays out a plausible upright hand below the index fingertip and
// places the thumb tip gap away from it.
func handAt(x, y, gap float64) Hand {
	lm := Hand{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: x, Y: y + 0.30}

	lm.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: y + 0.25}
	lm.Points[ThumbMCP] = Point3D{X: x + 0.08, Y: y + 0.18}
	lm.Points[ThumbIP] = Point3D{X: x + 0.08, Y: y + 0.10}
	lm.Points[ThumbTip] = Point3D{X: x + gap, Y: y}

	lm.Points[IndexMCP] = Point3D{X: x, Y: y + 0.18}
	lm.Points[IndexPIP] = Point3D{X: x, Y: y + 0.10}
	lm.Points[IndexDIP] = Point3D{X: x, Y: y + 0.05}
	lm.Points[IndexTip] = Point3D{X: x, Y: y}

	for i, finger := range [][4]int{
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	} {
		dx := -0.04 * float64(i+1)
		// curled fingers: knuckles stacked close to the palm
		lm.Points[finger[0]] = Point3D{X: x + dx, Y: y + 0.18}
		lm.Points[finger[1]] = Point3D{X: x + dx, Y: y + 0.15, Z: -0.04}
		lm.Points[finger[2]] = Point3D{X: x + dx, Y: y + 0.17, Z: -0.03}
		lm.Points[finger[3]] = Point3D{X: x + dx, Y: y + 0.20, Z: -0.02}
	}

	return lm
}
