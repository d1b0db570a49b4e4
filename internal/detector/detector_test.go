package detector

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ayusman/airsketch/internal/detector/landmark"
)

func TestMockDetector_QueueThenHands(t *testing.T) {
	m := NewMockDetector()
	m.SetHands([]landmark.Hand{landmark.Open(0.5, 0.5)})
	m.Enqueue([]landmark.Hand{landmark.Pinch(0.1, 0.1)}, nil)

	first, _ := m.Detect(nil)
	if len(first) != 1 || first[0].Points[landmark.IndexTip].X != 0.1 {
		t.Fatalf("first frame = %+v, want queued pinch", first)
	}

	second, _ := m.Detect(nil)
	if len(second) != 0 {
		t.Fatalf("second frame = %+v, want empty", second)
	}

	third, _ := m.Detect(nil)
	if len(third) != 1 || third[0].Points[landmark.IndexTip].X != 0.5 {
		t.Fatalf("third frame = %+v, want configured hands", third)
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}
}

func TestMockDetector_Error(t *testing.T) {
	m := NewMockDetector()
	want := errors.New("boom")
	m.SetError(want)

	if _, err := m.Detect(nil); !errors.Is(err, want) {
		t.Errorf("Detect() error = %v, want %v", err, want)
	}
}

func TestDecodeHands(t *testing.T) {
	points := make([]landmark.Point3D, landmark.Count)
	points[landmark.IndexTip] = landmark.Point3D{X: 0.3, Y: 0.6}
	full, _ := json.Marshal(map[string]any{
		"hands": []map[string]any{
			{"points": points, "handedness": "Left", "score": 0.9},
			{"points": points[:5], "handedness": "Right", "score": 0.8},
		},
	})

	hands, err := decodeHands(full)
	if err != nil {
		t.Fatalf("decodeHands() error = %v", err)
	}
	if len(hands) != 1 {
		t.Fatalf("got %d hands, want 1 (truncated hand dropped)", len(hands))
	}
	if hands[0].Handedness != "Left" || hands[0].Points[landmark.IndexTip].Y != 0.6 {
		t.Errorf("decoded hand = %+v", hands[0])
	}

	if _, err := decodeHands([]byte("not json")); err == nil {
		t.Error("decodeHands() should fail on malformed input")
	}
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = ""
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := NewMediaPipeDetector(cfg); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("NewMediaPipeDetector() error = %v, want ErrServiceNotFound", err)
	}
}
