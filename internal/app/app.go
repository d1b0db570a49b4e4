// Package app wires the camera, hand detector and drawing session into the
// frame loop and exposes the session to the HTTP server and tray.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/render"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/suggest"
)

// Pipeline timing defaults.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a hand may be drawing.
	ActiveFPS = 30
	// IdleTimeout is how long without motion before switching back to idle.
	IdleTimeout = 2 * time.Second
	// SubscriberBuffer is the number of views queued per subscriber.
	SubscriberBuffer = 4
)

// ErrStopped is returned by Do when the app has been closed.
var ErrStopped = errors.New("app stopped")

// Timing configures the frame loop.
type Timing struct {
	IdleFPS     int           `yaml:"idle_fps"`
	ActiveFPS   int           `yaml:"active_fps"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// AlwaysActive skips motion gating and runs detection on every frame.
	AlwaysActive bool `yaml:"always_active"`
}

// DefaultTiming returns the default loop timing.
func DefaultTiming() Timing {
	return Timing{
		IdleFPS:     IdleFPS,
		ActiveFPS:   ActiveFPS,
		IdleTimeout: IdleTimeout,
	}
}

// Config holds configuration options for the application.
type Config struct {
	// Camera overrides the device camera built from CameraConfig.
	Camera       capture.Camera
	CameraConfig capture.Config
	Motion       capture.MotionConfig
	// Detector overrides the MediaPipe detector built from DetectorConfig.
	Detector       detector.Detector
	DetectorConfig detector.Config
	Session        session.Config
	Timing         Timing
	// Namer produces shape suggestions. Nil disables suggestions.
	Namer   suggest.Namer
	Suggest suggest.Config
}

// App owns the frame loop. The session is only touched by the loop
// goroutine, or by Do while the loop is stopped.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	renderer *render.Renderer
	throttle *suggest.Throttle
	session  *session.Session
	enabled  atomic.Bool
	cmds     chan func(*session.Session)

	mu       sync.Mutex
	detector detector.Detector
	stopCh   chan struct{}
	loopDone chan struct{}
	closed   bool

	subsMu sync.Mutex
	subs   map[chan session.View]struct{}

	frameMu   sync.RWMutex
	lastFrame gocv.Mat
	lastView  session.View
}

// New creates an App. Detection starts enabled.
func New(config Config) (*App, error) {
	if config.Timing.IdleFPS <= 0 || config.Timing.ActiveFPS <= 0 || config.Timing.IdleTimeout <= 0 {
		config.Timing = DefaultTiming()
	}

	a := &App{
		config:    config,
		camera:    config.Camera,
		motion:    capture.NewMotionDetector(config.Motion),
		renderer:  render.New(render.DefaultPalette()),
		detector:  config.Detector,
		cmds:      make(chan func(*session.Session)),
		subs:      make(map[chan session.View]struct{}),
		lastFrame: gocv.NewMat(),
	}
	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraConfig)
	}

	var sug session.Suggester
	if config.Namer != nil {
		a.throttle = suggest.NewThrottle(config.Namer, config.Suggest)
		sug = a.throttle
	}
	sess, err := session.New(config.Session, sug)
	if err != nil {
		a.motion.Close()
		a.lastFrame.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	a.session = sess
	a.lastView = sess.View()

	// Try MediaPipe first, fall back to mock detector
	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	a.enabled.Store(true)
	return a, nil
}

// SetEnabled enables or disables hand detection. While disabled frames are
// still shown but never reach the session.
func (a *App) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}

// IsEnabled returns whether hand detection is currently enabled.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// SetDetector replaces the hand detector. It takes effect on the next Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Start opens the camera and begins the frame loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrStopped
	}
	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.Timing.IdleFPS)

	a.stopCh = make(chan struct{})
	a.loopDone = make(chan struct{})
	go a.run(a.stopCh, a.loopDone, a.detector)

	log.Println("Frame loop started")
	return nil
}

// Stop halts the frame loop and closes the camera. It can be restarted.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	done := a.loopDone
	a.mu.Unlock()

	if done == nil {
		return
	}
	<-done

	a.mu.Lock()
	if a.loopDone == done {
		a.loopDone = nil
	}
	a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	log.Println("Frame loop stopped")
}

// Close stops the loop and releases the detector and motion state.
func (a *App) Close() error {
	a.Stop()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	det := a.detector
	a.mu.Unlock()

	if a.throttle != nil {
		a.throttle.Wait()
	}
	a.motion.Close()

	a.frameMu.Lock()
	a.lastFrame.Close()
	a.frameMu.Unlock()

	if det != nil {
		if err := det.Close(); err != nil {
			return fmt.Errorf("close detector: %w", err)
		}
	}
	return nil
}

// Do runs fn against the session on the frame loop and publishes the
// resulting view. When the loop is not running fn runs on the caller's
// goroutine. fn must not call back into the App.
func (a *App) Do(fn func(*session.Session)) error {
	for {
		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return ErrStopped
		}
		if a.stopCh == nil {
			// A stopped loop may still be finishing its last frame.
			if a.loopDone != nil {
				<-a.loopDone
			}
			fn(a.session)
			a.publish()
			a.mu.Unlock()
			return nil
		}
		stop := a.stopCh
		a.mu.Unlock()

		done := make(chan struct{})
		select {
		case a.cmds <- func(s *session.Session) {
			fn(s)
			a.publish()
			close(done)
		}:
			<-done
			return nil
		case <-stop:
			// Retry inline or on the restarted loop.
		}
	}
}

// View returns the most recently published view.
func (a *App) View() session.View {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.lastView
}

// Subscribe returns a channel of published views and a cancel function.
// Slow subscribers lose the oldest queued views.
func (a *App) Subscribe() (<-chan session.View, func()) {
	ch := make(chan session.View, SubscriberBuffer)
	a.subsMu.Lock()
	a.subs[ch] = struct{}{}
	a.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subsMu.Lock()
			delete(a.subs, ch)
			a.subsMu.Unlock()
		})
	}
}

// publish snapshots the session and fans the view out. Callers own the
// session at the time of the call.
func (a *App) publish() {
	v := a.session.View()

	a.frameMu.Lock()
	a.lastView = v
	a.frameMu.Unlock()

	a.subsMu.Lock()
	defer a.subsMu.Unlock()
	for ch := range a.subs {
		select {
		case ch <- v:
		default:
			// Drop the oldest view to make room.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Composite returns the latest camera frame with the latest view drawn on
// it, or the view on a black canvas before the first frame. The caller
// closes the result.
func (a *App) Composite() gocv.Mat {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	if a.lastFrame.Empty() {
		return a.renderer.Compose(nil, a.lastView)
	}
	return a.renderer.Compose(&a.lastFrame, a.lastView)
}

func (a *App) storeFrame(frame *gocv.Mat) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	frame.CopyTo(&a.lastFrame)
}
