package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Open(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lidl_2025-05-08.csv"), []byte("product_name\n"), 0o644))

	source := NewFileSource(dir)
	ctx := context.Background()

	t.Run("opens existing file", func(t *testing.T) {
		rc, err := source.Open(ctx, "lidl_2025-05-08.csv")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "product_name\n", string(body))
	})

	t.Run("missing file is not found", func(t *testing.T) {
		_, err := source.Open(ctx, "profi_2025-05-08.csv")
		assert.ErrorIs(t, err, domain.ErrSourceNotFound)
	})

	t.Run("stays inside its directory", func(t *testing.T) {
		_, err := source.Open(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, domain.ErrSourceNotFound)
	})
}

func TestNewHTTPSource(t *testing.T) {
	source := NewHTTPSource("https://data.example.com/catalog/", 0, 0)

	assert.Equal(t, "https://data.example.com/catalog", source.baseURL)
	assert.NotNil(t, source.httpClient)
	assert.NotNil(t, source.rateLimiter)
	assert.False(t, source.debug)

	source.SetDebug(true)
	assert.True(t, source.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestHTTPSource_Open_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lidl_2025-05-08.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("product_name;price\nlapte;5.9\n"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)

	rc, err := source.Open(context.Background(), "lidl_2025-05-08.csv")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lapte;5.9")
}

func TestHTTPSource_Open_NotFound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)

	rc, err := source.Open(context.Background(), "missing.csv")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPSource_Open_ServerError_Retries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("product_name\n"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)

	rc, err := source.Open(context.Background(), "retry.csv")
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, int32(3), attempts.Load())
}

func TestHTTPSource_Open_TruncatedBody_BacksOff(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("product_name;price\n"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The first backoff (500ms) outlives the deadline, so no second attempt is made.
	rc, err := source.Open(ctx, "truncated.csv")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPSource_Open_ClientError_NoRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)

	rc, err := source.Open(context.Background(), "forbidden.csv")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, domain.ErrSourceFailure)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPSource_Open_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, 100, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rc, err := source.Open(ctx, "slow.csv")
	assert.Nil(t, rc)
	assert.Error(t, err)
}
