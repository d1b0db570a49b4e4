package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"time"
)

// maxResponseBody caps how much of a naming response is read.
const maxResponseBody = 1 << 20

// Namer turns a stroke payload into candidate shape names.
type Namer interface {
	Name(ctx context.Context, req Request) ([]string, error)
}

// HTTPNamer posts requests to a naming endpoint such as
// /api/recommend-shapes.
type HTTPNamer struct {
	url    string
	client *http.Client
}

// NewHTTPNamer creates a namer for the given endpoint URL.
func NewHTTPNamer(url string, client *http.Client) *HTTPNamer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPNamer{url: url, client: client}
}

// Name implements Namer.
func (n *HTTPNamer) Name(ctx context.Context, req Request) ([]string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp replyBody
	decodeErr := json.Unmarshal(respBody, &resp)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		if decodeErr == nil && resp.Error != "" {
			return nil, fmt.Errorf("naming service status %d: %s", httpResp.StatusCode, resp.Error)
		}
		return nil, fmt.Errorf("naming service status %d", httpResp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	return resp.names(), nil
}

// replyBody is a Response whose suggestions may hold non-string entries.
type replyBody struct {
	Suggestions []any  `json:"suggestions"`
	Error       string `json:"error,omitempty"`
}

// names keeps the string entries, cleaned.
func (r replyBody) names() []string {
	out := make([]string, 0, len(r.Suggestions))
	for _, e := range r.Suggestions {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return Clean(out)
}

// CommandNamer runs an external program per request. The request JSON is
// written to its stdin and a Response is read from its stdout.
type CommandNamer struct {
	executable string
	dir        string
	timeout    time.Duration
}

// NewCommandNamer creates a namer that executes the given program.
func NewCommandNamer(executable, dir string, timeout time.Duration) *CommandNamer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CommandNamer{executable: executable, dir: dir, timeout: timeout}
}

// Name implements Namer.
func (c *CommandNamer) Name(ctx context.Context, req Request) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.executable)
	cmd.Dir = c.dir

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("namer timeout after %s", c.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("namer failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("namer failed: %w", err)
	}

	var resp replyBody
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse namer response: %w, stdout: %s", err, stdout.String())
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("namer error: %s", resp.Error)
	}
	return resp.names(), nil
}
