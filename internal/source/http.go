package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bianoble/ssg/internal/cache"
	"github.com/bianoble/ssg/internal/target"
)

// Fetcher downloads remote files. One Fetcher is shared by every HTTP
// source of a run and is safe for concurrent use. Re-fetching a URL is
// assumed idempotent, so concurrent misses for the same URL may both hit
// the network.
type Fetcher struct {
	Client  HTTPClient
	MaxSize int64         // max body size in bytes (0 = no limit)
	Timeout time.Duration // per-request timeout (0 = no extra timeout beyond context)
	Cache   *cache.Layered
	Logger  *slog.Logger
}

// Fetch returns the body of url, from the cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.Cache.Lookup(url); ok {
		f.logger().Debug("fetch cache hit", "url", url, "bytes", len(body))
		return body, nil
	}

	body, err := f.fetchURL(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.Cache.Store(url, body); err != nil {
		f.logger().Warn("caching fetched body", "url", url, "error", err)
	}
	return body, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	client := f.Client
	if client == nil {
		client = DefaultHTTPClient{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindFetch, Err: fmt.Errorf("creating request: %w", err)}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindFetch, Err: fmt.Errorf("fetching %s: %w", url, err), Hint: "check network connectivity and URL"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind: KindFetch,
			Err:  fmt.Errorf("HTTP %d from %s", resp.StatusCode, url),
			Hint: "check that the URL is accessible and returns the expected content",
		}
	}

	var reader io.Reader = resp.Body
	if f.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, f.MaxSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, &Error{Kind: KindFetch, Err: fmt.Errorf("reading response from %s: %w", url, err)}
	}

	if f.MaxSize > 0 && int64(len(content)) > f.MaxSize {
		return nil, &Error{
			Kind: KindFetch,
			Err:  fmt.Errorf("body of %s exceeds max size %d bytes", url, f.MaxSize),
			Hint: "increase fetch.max_size or use a smaller file",
		}
	}

	f.logger().Debug("fetched", "url", url, "bytes", len(content), "elapsed", time.Since(start))
	return content, nil
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

// HTTP produces the body of a remote URL.
type HTTP struct {
	URL     string
	Fetcher *Fetcher // nil uses an uncached default fetcher
}

func (h HTTP) Produce(ctx context.Context, _ target.Targets) (FileContents, error) {
	fetcher := h.Fetcher
	if fetcher == nil {
		fetcher = &Fetcher{}
	}
	body, err := fetcher.Fetch(ctx, h.URL)
	if err != nil {
		return FileContents{}, err
	}
	return Contents(body), nil
}
