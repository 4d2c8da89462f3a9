// File: internal/page/page.go
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/xkilldash9x/petition-cli/internal/dom"
)

// maxPageBytes bounds how much of a page is read.
const maxPageBytes = 16 << 20

// Page is a loaded petition page.
type Page struct {
	// URL is the address the page was served from. It becomes the Referer of
	// the signature request.
	URL      string
	Document *dom.Document
}

// Source loads the page at a URL.
type Source interface {
	Load(ctx context.Context, pageURL string) (*Page, error)
}

// StatusError is returned for a non-2xx page response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d loading %s", e.StatusCode, e.URL)
}

// FileSource reads a saved copy of the page from disk. The URL passed to
// Load is only recorded, never fetched.
type FileSource struct {
	Path   string
	Logger *zap.Logger
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context, pageURL string) (*Page, error) {
	logger := named(s.Logger)
	path, err := homedir.Expand(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand page path %q: %w", s.Path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open saved page: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(io.LimitReader(f, maxPageBytes), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded page from file.", zap.String("path", path), zap.String("url", pageURL))
	return &Page{URL: pageURL, Document: doc}, nil
}

// Doer sends HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource fetches the page with a plain GET. Session cookies land in the
// client's jar, where the signature request picks them up.
type HTTPSource struct {
	Client Doer
	Logger *zap.Logger
}

// Load implements Source. Redirects are followed; the final URL is recorded.
func (s *HTTPSource) Load(ctx context.Context, pageURL string) (*Page, error) {
	logger := named(s.Logger)
	if err := checkURL(pageURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page charset: %w", err)
	}
	doc, err := dom.Parse(body, logger)
	if err != nil {
		return nil, err
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	logger.Info("Fetched page.", zap.String("url", finalURL), zap.Int("status", resp.StatusCode))
	return &Page{URL: finalURL, Document: doc}, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid page URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid page URL %q: must be an absolute http(s) URL", raw)
	}
	return nil
}

func named(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.Named("page")
}
