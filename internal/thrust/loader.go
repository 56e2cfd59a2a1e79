package thrust

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/tethersim/internal/dynamo"
)

const defaultTimeout = 10 * time.Second

// Loader retrieves thrust documents from a file path or an http(s) URL.
type Loader struct {
	stepMs     float64
	httpClient *http.Client
	logger     log.Logger
}

// NewLoader creates a Loader for records spaced stepMs apart. A nil logger
// discards output.
func NewLoader(stepMs float64, logger log.Logger) *Loader {
	if stepMs <= 0 {
		stepMs = DefaultStepMs
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Loader{
		stepMs: stepMs,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: log.With(logger, "component", "thrust"),
	}
}

// WithHTTPClient replaces the client used for remote documents.
func (l *Loader) WithHTTPClient(c *http.Client) *Loader {
	l.httpClient = c
	return l
}

// Load reads and decodes the document at location. Every failure wraps
// dynamo.ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context, location string) (*Series, error) {
	body, err := l.open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrDataUnavailable, err)
	}
	defer body.Close()

	s, err := Decode(body, l.stepMs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrDataUnavailable, location, err)
	}
	level.Debug(l.logger).Log("msg", "thrust series loaded", "location", location,
		"samples", s.Len(), "duration_ms", s.DurationMs(), "total_impulse", s.TotalImpulse())
	return s, nil
}

// LoadOrMissing loads the series at location, degrading to a Missing source
// that reports zero thrust when the load fails.
func (l *Loader) LoadOrMissing(ctx context.Context, location string) Source {
	s, err := l.Load(ctx, location)
	if err != nil {
		level.Warn(l.logger).Log("msg", "thrust data unavailable, using zero thrust",
			"location", location, "err", err)
		return Missing{Location: location, Err: err}
	}
	return NewTabulated(s)
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("no thrust data location configured")
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.Open(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching thrust data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, location)
	}
	return resp.Body, nil
}
