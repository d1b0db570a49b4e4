package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion defaults.
const (
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion.
	DefaultMotionThreshold = 1.0
	// DefaultBlurSize is the Gaussian kernel used to suppress sensor noise.
	DefaultBlurSize = 21
	// DefaultDiffThreshold is the per-pixel intensity change that counts.
	DefaultDiffThreshold = 25
)

// MotionConfig tunes frame differencing.
type MotionConfig struct {
	Threshold     float64 `yaml:"threshold"`
	BlurSize      int     `yaml:"blur_size"`
	DiffThreshold float32 `yaml:"diff_threshold"`
}

// DefaultMotionConfig returns the default tuning.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Threshold:     DefaultMotionThreshold,
		BlurSize:      DefaultBlurSize,
		DiffThreshold: DefaultDiffThreshold,
	}
}

// MotionDetector compares each frame with the previous one. The frame loop
// uses it to run hand detection only while someone is moving.
type MotionDetector struct {
	cfg         MotionConfig
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a detector. Invalid fields take defaults; the
// blur kernel is forced odd.
func NewMotionDetector(cfg MotionConfig) *MotionDetector {
	def := DefaultMotionConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.BlurSize <= 0 {
		cfg.BlurSize = def.BlurSize
	}
	if cfg.BlurSize%2 == 0 {
		cfg.BlurSize++
	}
	if cfg.DiffThreshold <= 0 {
		cfg.DiffThreshold = def.DiffThreshold
	}
	return &MotionDetector{cfg: cfg, prevGray: gocv.NewMat()}
}

// Detect reports whether frame differs from the previous frame and the
// percentage of pixels that changed. The first frame only sets the
// baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	cur := m.prepare(frame)
	defer cur.Close()

	if !m.initialized || cur.Rows() != m.prevGray.Rows() || cur.Cols() != m.prevGray.Cols() {
		cur.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(cur, m.prevGray, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, m.cfg.DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100.0
	cur.CopyTo(&m.prevGray)

	return changed > m.cfg.Threshold, changed
}

// prepare converts to blurred grayscale.
func (m *MotionDetector) prepare(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	k := m.cfg.BlurSize
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)
	return blurred
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline frame. The detector stays usable.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold changes the changed-pixel percentage. Values <= 0 are
// ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Threshold = threshold
}

// Threshold returns the changed-pixel percentage.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Threshold
}
