package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/metaresolve/internal/connectors/filesystem"
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// Ensure HTTPFetcher implements the interface.
var _ driven.ModelFetcher = (*HTTPFetcher)(nil)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxModelSize bounds the size of a downloaded model.
	MaxModelSize = 16 << 20
)

// HTTPFetcher retrieves model documents over HTTP(S), from GitHub blob
// pages and from file:// uris.
type HTTPFetcher struct {
	client     *http.Client
	github     *gh.Client
	githubAPI  string
	token      string
	limiter    *RateLimiter
	local      driven.ModelSource
	timeout    time.Duration
	retryDelay time.Duration
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = client }
}

// WithRetryDelay sets the initial delay between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.retryDelay = d }
}

// WithGitHubBaseURL points the contents API client at another host, such
// as GitHub Enterprise. The url must end with a slash.
func WithGitHubBaseURL(baseURL string) Option {
	return func(f *HTTPFetcher) { f.githubAPI = baseURL }
}

// WithLocalSource sets the source used for file:// uris.
func WithLocalSource(source driven.ModelSource) Option {
	return func(f *HTTPFetcher) { f.local = source }
}

// NewHTTPFetcher creates a fetcher throttled and bounded by settings.
func NewHTTPFetcher(settings domain.FetchSettings, opts ...Option) (*HTTPFetcher, error) {
	timeout := DefaultTimeout
	if settings.TimeoutSeconds > 0 {
		timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	token := settings.GitHubToken
	if token == "" {
		token = os.Getenv(EnvGitHubToken)
	}
	f := &HTTPFetcher{
		client:     http.DefaultClient,
		token:      token,
		limiter:    NewRateLimiter(settings.RatePerSecond),
		local:      filesystem.NewSource(),
		timeout:    timeout,
		retryDelay: RetryDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.github = newGitHubClient(f.client, f.token)
	if f.githubAPI != "" {
		base, err := url.Parse(f.githubAPI)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		f.github.BaseURL = base
	}
	return f, nil
}

// Fetch downloads the model at uri. The response must hold exactly one
// model, either bare or in a Models wrapper.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) (*domain.Document, error) {
	if path, ok := filesystem.LocalPath(uri); ok {
		docs, err := f.local.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		return single(uri, docs)
	}

	get := func() ([]byte, error) { return f.get(ctx, uri) }
	if blob, ok := parseBlobURI(uri); ok {
		get = func() ([]byte, error) { return f.getBlob(ctx, uri, blob) }
	}

	data, err := f.retry(ctx, uri, get)
	if err != nil {
		return nil, err
	}

	models, err := domain.DecodeModels(data)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	return single(uri, models.Models)
}

// retry calls get until it succeeds, fails permanently or MaxRetries
// retries were spent, doubling the delay each time.
func (f *HTTPFetcher) retry(ctx context.Context, uri string, get func() ([]byte, error)) ([]byte, error) {
	delay := f.retryDelay
	for attempt := 0; ; attempt++ {
		data, err := get()
		if err == nil || !isTransient(err) || attempt == MaxRetries {
			return data, err
		}
		logger.Warn("fetch %s failed (attempt %d/%d): %v", uri, attempt+1, MaxRetries+1, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// get performs one throttled GET request.
func (f *HTTPFetcher) get(ctx context.Context, uri string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("GET %s", uri)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if err := f.limiter.CheckResponse(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: uri}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxModelSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: reading body: %w", uri, err)
	}
	if len(data) > MaxModelSize {
		return nil, fmt.Errorf("fetch %s: %w: larger than %d bytes", uri, domain.ErrInvalidModel, MaxModelSize)
	}
	return data, nil
}

func single(uri string, docs []*domain.Document) (*domain.Document, error) {
	if len(docs) != 1 {
		return nil, fmt.Errorf("fetch %s: %w, got %d", uri, ErrNotSingleModel, len(docs))
	}
	return docs[0], nil
}
