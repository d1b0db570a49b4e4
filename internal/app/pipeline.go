package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/detector/landmark"
	"github.com/ayusman/airsketch/internal/session"
)

// run is the frame loop. It owns the session until done is closed.
//
// Pipeline logic:
//  1. Start in idle mode (IdleFPS)
//  2. On motion, switch to active mode (ActiveFPS)
//  3. In active mode, detect hands and feed them to the session
//  4. In idle mode, feed an empty sample so open strokes are committed
//  5. After IdleTimeout without motion, switch back to idle mode
//  6. Between frames, run queued commands
func (a *App) run(stop <-chan struct{}, done chan<- struct{}, det detector.Detector) {
	defer close(done)

	timing := a.config.Timing
	p := &pipeline{
		app:        a,
		det:        det,
		timing:     timing,
		lastMotion: time.Now(),
	}

	ticker := time.NewTicker(time.Second / time.Duration(timing.IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case fn := <-a.cmds:
			fn(a.session)
		case <-ticker.C:
			if changed := p.tick(); changed {
				ticker.Reset(time.Second / time.Duration(p.fps()))
			}
		}
	}
}

// pipeline is the per-loop state of run.
type pipeline struct {
	app        *App
	det        detector.Detector
	timing     Timing
	active     bool
	lastMotion time.Time
}

func (p *pipeline) fps() int {
	if p.active {
		return p.timing.ActiveFPS
	}
	return p.timing.IdleFPS
}

// tick processes one frame and reports whether the loop rate changed.
func (p *pipeline) tick() bool {
	a := p.app

	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return false
	}
	defer frame.Close()
	a.storeFrame(frame)

	changed := p.updateMode(p.moved(frame))

	var hands []landmark.Hand
	if p.active && a.IsEnabled() && p.det != nil {
		hands, err = p.det.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			hands = nil
		}
	}

	p.feed(hands)
	return changed
}

// feed runs one sample through the session and publishes the view.
func (p *pipeline) feed(hands []landmark.Hand) session.Delta {
	d := p.app.session.ProcessSample(hands)
	if d.Committed && d.Recognized != nil {
		log.Printf("Recognized %s at (%.0f, %.0f)", d.Recognized.Type, d.Recognized.CX, d.Recognized.CY)
	}
	p.app.publish()
	return d
}

func (p *pipeline) moved(frame *gocv.Mat) bool {
	if p.timing.AlwaysActive {
		return true
	}
	moved, _ := p.app.motion.Detect(frame)
	return moved
}

// updateMode applies the motion result and reports whether the rate changed.
func (p *pipeline) updateMode(motion bool) bool {
	a := p.app
	if motion {
		p.lastMotion = time.Now()
		if !p.active {
			p.active = true
			a.camera.SetFPS(p.timing.ActiveFPS)
			log.Println("Switched to active mode")
			return true
		}
		return false
	}
	if p.active && time.Since(p.lastMotion) > p.timing.IdleTimeout {
		p.active = false
		a.camera.SetFPS(p.timing.IdleFPS)
		log.Println("Switched to idle mode")
		return true
	}
	return false
}
