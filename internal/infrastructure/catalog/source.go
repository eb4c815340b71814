package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// FileSource opens catalog files from a local directory
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Open opens dir/name. A missing file is reported as ErrSourceNotFound.
func (s *FileSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
	}
	return f, nil
}

// HTTPSource fetches catalog files from a remote base URL
type HTTPSource struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewHTTPSource creates a source that downloads <baseURL>/<name>, allowing
// requestsPerSecond with the given burst.
func NewHTTPSource(baseURL string, requestsPerSecond float64, burst int) *HTTPSource {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if burst <= 0 {
		burst = 5
	}

	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// SetDebug enables or disables debug logging
func (s *HTTPSource) SetDebug(debug bool) {
	s.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt:
// 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (s *HTTPSource) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceComparator/1.0")
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
	}

	return resp, nil
}

// Open downloads the named file, retrying transient failures with exponential
// backoff. A 404 is reported as ErrSourceNotFound without retrying.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	reqURL := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(name))
	if s.debug {
		log.Printf("[CATALOG] Fetching %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[CATALOG] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := s.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[CATALOG] Request error for %s (attempt %d): %v", name, attempt, err)
			lastErr = err
			if err := sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, name)
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[CATALOG] Source error for %s (attempt %d) - Status: %d", name, attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSourceFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			if err := sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}
		if readErr != nil {
			log.Printf("[CATALOG] Read error for %s (attempt %d): %v", name, attempt, readErr)
			lastErr = fmt.Errorf("%w: %v", domain.ErrSourceFailure, readErr)
			if err := sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if s.debug {
			log.Printf("[CATALOG] Fetched %s (%d bytes)", name, len(body))
		}
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	log.Printf("[CATALOG] All retries failed for %s", name)
	return nil, lastErr
}

// retryable reports whether a status is worth another attempt: rate limiting
// and server errors.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
