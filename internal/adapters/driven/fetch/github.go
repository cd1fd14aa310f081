package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// EnvGitHubToken is read when no token is configured.
const EnvGitHubToken = "GITHUB_TOKEN"

const githubHost = "github.com"

// blobRef locates a file in a GitHub repository.
type blobRef struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// parseBlobURI recognises https://github.com/<owner>/<repo>/blob/<ref>/<path>.
// Such pages serve HTML, so the file is read through the contents API.
func parseBlobURI(uri string) (blobRef, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "https" || !strings.EqualFold(u.Host, githubHost) {
		return blobRef{}, false
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 5)
	if len(parts) != 5 || parts[2] != "blob" {
		return blobRef{}, false
	}
	for _, p := range parts {
		if p == "" {
			return blobRef{}, false
		}
	}
	return blobRef{Owner: parts[0], Repo: parts[1], Ref: parts[3], Path: parts[4]}, true
}

// newGitHubClient creates a contents API client. A non-empty token is sent
// as a bearer token on GitHub requests only.
func newGitHubClient(httpClient *http.Client, token string) *gh.Client {
	if token == "" {
		return gh.NewClient(httpClient)
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return gh.NewClient(oauth2.NewClient(ctx, ts))
}

// getBlob performs one throttled contents API request.
func (f *HTTPFetcher) getBlob(ctx context.Context, uri string, blob blobRef) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	logger.Debug("GET contents %s/%s/%s@%s", blob.Owner, blob.Repo, blob.Path, blob.Ref)
	file, _, _, err := f.github.Repositories.GetContents(reqCtx, blob.Owner, blob.Repo, blob.Path,
		&gh.RepositoryContentGetOptions{Ref: blob.Ref})
	if err != nil {
		return nil, f.wrapGitHubError(uri, err)
	}
	if file == nil {
		return nil, fmt.Errorf("fetch %s: %w: path is a directory", uri, domain.ErrInvalidModel)
	}
	if file.GetSize() > MaxModelSize {
		return nil, fmt.Errorf("fetch %s: %w: larger than %d bytes", uri, domain.ErrInvalidModel, MaxModelSize)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: decoding content: %w", uri, err)
	}
	return []byte(content), nil
}

// wrapGitHubError converts go-github errors to the fetch error types and
// pauses the limiter on rate limiting.
func (f *HTTPFetcher) wrapGitHubError(uri string, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		retryAt := rateErr.Rate.Reset.Time
		f.limiter.Pause(retryAt)
		return &RateLimitError{URL: uri, RetryAt: retryAt}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := DefaultRetryAfter
		if abuseErr.RetryAfter != nil {
			wait = *abuseErr.RetryAfter
		}
		retryAt := time.Now().Add(wait)
		f.limiter.Pause(retryAt)
		return &RateLimitError{URL: uri, RetryAt: retryAt}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return &HTTPError{StatusCode: respErr.Response.StatusCode, URL: uri}
	}

	return fmt.Errorf("fetch %s: %w", uri, err)
}
