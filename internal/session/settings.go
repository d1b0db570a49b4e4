package session

import (
	"errors"
	"fmt"

	"github.com/ayusman/airsketch/internal/scene"
)

// Mode selects what a pinch does.
type Mode string

const (
	ModeDraw  Mode = "draw"
	ModeErase Mode = "erase"
	ModeEdit  Mode = "edit"
)

// TargetAuto lets the recognizer pick the shape type.
const TargetAuto = "auto"

var (
	// ErrInvalidMode is returned for an unknown mode name.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidShapeType is returned for an unknown shape type name.
	ErrInvalidShapeType = errors.New("invalid shape type")
	// ErrInvalidSettings is returned when numeric settings are out of range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDraw, ModeErase, ModeEdit:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Settings are the user-facing knobs, read at the moment each operation
// runs.
type Settings struct {
	Mode        Mode    `json:"mode" yaml:"mode"`
	Snap        bool    `json:"snap" yaml:"snap"`
	TargetType  string  `json:"targetType" yaml:"target_type"`
	Color       string  `json:"color" yaml:"color"`
	Width       float64 `json:"width" yaml:"width"`
	EraseRadius float64 `json:"eraseRadius" yaml:"erase_radius"`
	PixelRatio  float64 `json:"pixelRatio" yaml:"pixel_ratio"`
	// Canvas size in device pixels.
	CanvasWidth  float64 `json:"canvasWidth" yaml:"canvas_width"`
	CanvasHeight float64 `json:"canvasHeight" yaml:"canvas_height"`
	ShowHands    bool    `json:"showHands" yaml:"show_hands"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Mode:         ModeDraw,
		Snap:         true,
		TargetType:   TargetAuto,
		Color:        "#00e0ff",
		Width:        6,
		EraseRadius:  20,
		PixelRatio:   1,
		CanvasWidth:  1280,
		CanvasHeight: 720,
		ShowHands:    true,
	}
}

// Validate checks names and ranges.
func (s Settings) Validate() error {
	if _, err := ParseMode(string(s.Mode)); err != nil {
		return err
	}
	if _, err := s.pinnedType(); err != nil {
		return err
	}
	switch {
	case s.Width <= 0:
		return fmt.Errorf("%w: width must be positive", ErrInvalidSettings)
	case s.EraseRadius <= 0:
		return fmt.Errorf("%w: erase radius must be positive", ErrInvalidSettings)
	case s.PixelRatio <= 0:
		return fmt.Errorf("%w: pixel ratio must be positive", ErrInvalidSettings)
	case s.CanvasWidth <= 0 || s.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas size must be positive", ErrInvalidSettings)
	}
	return nil
}

// pinnedType returns the explicitly chosen shape type, or "" for auto.
func (s Settings) pinnedType() (scene.ShapeType, error) {
	if s.TargetType == "" || s.TargetType == TargetAuto {
		return "", nil
	}
	t, err := scene.ParseShapeType(s.TargetType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidShapeType, s.TargetType)
	}
	return t, nil
}
