// Package updatecheck reports when a newer release is available.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/wizardsarehere/LumeDB/internal/logging"
)

const (
	// DefaultEndpoint is the latest-release endpoint checked at startup.
	DefaultEndpoint = "https://api.github.com/repos/wizardsarehere/LumeDB/releases/latest"
	// MaxRetries is the maximum number of retries for the release request.
	MaxRetries = 3
	// RetryInitialInterval is the initial interval for exponential backoff.
	RetryInitialInterval = time.Second
	// RetryMaxInterval is the maximum interval for exponential backoff.
	RetryMaxInterval = 30 * time.Second
	// RetryMaxElapsedTime is the maximum total time for retries.
	RetryMaxElapsedTime = 2 * time.Minute
)

// release is the subset of the GitHub release payload the checker reads.
type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker fetches the latest published release in the background and logs
// a notice when it is newer than the running version.
type Checker struct {
	endpoint string
	client   *http.Client
	version  string

	cancel context.CancelFunc
	doneCh chan struct{}

	mu      sync.Mutex
	started bool
	latest  string
	newer   bool

	log zerolog.Logger
}

// NewChecker creates a checker comparing releases against version.
func NewChecker(version string) *Checker {
	return &Checker{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		version:  version,
		doneCh:   make(chan struct{}),
		log:      logging.Component("updatecheck"),
	}
}

// newRetryBackoff creates an exponential backoff with jitter for the
// release request.
func newRetryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryInitialInterval
	b.MaxInterval = RetryMaxInterval
	b.MaxElapsedTime = RetryMaxElapsedTime
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx)
}

// Start launches the background check. Starting twice is a no-op.
func (c *Checker) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer close(c.doneCh)
		op := func() error {
			return c.check(ctx)
		}
		if err := backoff.Retry(op, newRetryBackoff(ctx)); err != nil {
			c.log.Debug().Err(err).Msg("release check failed")
		}
	}()
}

// Stop cancels an in-flight check and waits for the goroutine to exit.
func (c *Checker) Stop() {
	c.mu.Lock()
	started := c.started
	cancel := c.cancel
	c.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-c.doneCh
}

// Latest returns the most recently fetched release tag and whether it is
// newer than the running version.
func (c *Checker) Latest() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.newer
}

// check fetches the latest release and records the comparison outcome.
// Client errors from the endpoint will not improve on retry and are
// marked permanent.
func (c *Checker) check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("release endpoint returned %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return fmt.Errorf("failed to decode release: %w", err)
	}
	c.compare(rel)
	return nil
}

// compare parses both versions and logs when the release is newer. Tags
// that do not parse as semver are recorded but never reported as newer.
func (c *Checker) compare(rel release) {
	c.mu.Lock()
	c.latest = rel.TagName
	c.mu.Unlock()

	current, err := semver.NewVersion(c.version)
	if err != nil {
		c.log.Debug().Str("version", c.version).Msg("running version is not semver")
		return
	}
	latest, err := semver.NewVersion(rel.TagName)
	if err != nil {
		c.log.Debug().Str("tag", rel.TagName).Msg("release tag is not semver")
		return
	}

	if latest.GreaterThan(current) {
		c.mu.Lock()
		c.newer = true
		c.mu.Unlock()
		c.log.Info().
			Str("current", current.String()).
			Str("latest", latest.String()).
			Str("url", rel.HTMLURL).
			Msg("a newer LumeDB release is available")
	}
}
