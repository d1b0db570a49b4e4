// Package naming guesses what a set of air-drawn strokes depicts by asking
// a Gemini model. It backs the /api/recommend-shapes endpoint and can be
// used in-process as a suggest.Namer.
package naming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ayusman/airsketch/internal/suggest"
)

// PromptStrokesLimit caps the stroke JSON embedded in the prompt.
const PromptStrokesLimit = 8000

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("missing GOOGLE_API_KEY")

// Config configures the naming service.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// Service turns stroke payloads into shape names.
type Service struct {
	gen Generator
}

// New creates a service. Without an API key the service exists but every
// call fails with ErrNotConfigured.
func New(cfg Config) *Service {
	if cfg.APIKey == "" {
		return &Service{}
	}
	client := NewGeminiClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	return &Service{gen: NewBreakerGenerator(client, cfg.Breaker)}
}

// NewWithGenerator creates a service over any generator.
func NewWithGenerator(gen Generator) *Service {
	return &Service{gen: gen}
}

// Configured reports whether the service can reach a model.
func (s *Service) Configured() bool { return s.gen != nil }

// Name implements suggest.Namer.
func (s *Service) Name(ctx context.Context, req suggest.Request) ([]string, error) {
	if s.gen == nil {
		return nil, ErrNotConfigured
	}
	if len(req.Strokes) == 0 {
		return nil, suggest.ErrNoStrokes
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return ParseSuggestions(text), nil
}

// BuildPrompt renders the model prompt for a request.
func BuildPrompt(req suggest.Request) (string, error) {
	strokes, err := json.Marshal(req.Strokes)
	if err != nil {
		return "", fmt.Errorf("marshal strokes: %w", err)
	}
	if len(strokes) > PromptStrokesLimit {
		strokes = strokes[:PromptStrokesLimit]
	}

	return fmt.Sprintf(`You are a drawing assistant. Given a sequence of polyline strokes captured from air-drawing using hand tracking, guess up to 5 likely shapes the user intends. Return concise titles only, most likely first. Consider common shapes like circle, square, triangle, star, heart, arrow, house, smiley face, letter, number. Input includes canvas size for scale.

Canvas: %gx%g
Strokes JSON: %s

Respond as a single JSON array of strings, no prose.`, req.Width, req.Height, strokes), nil
}

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseSuggestions extracts names from a model reply. The reply should be
// a JSON array; otherwise the outermost bracketed span is tried. Non-string
// entries are dropped.
func ParseSuggestions(text string) []string {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		m := arrayPattern.FindString(text)
		if m == "" || json.Unmarshal([]byte(m), &v) != nil {
			return []string{}
		}
	}

	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			names = append(names, s)
		}
	}
	return suggest.Clean(names)
}
