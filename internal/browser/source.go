// File: internal/browser/source.go
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/page"
)

// Source renders the page in headless Chrome, so host state injected by
// scripts is present, and snapshots the resulting DOM.
type Source struct {
	Config config.BrowserConfig
	// Jar, when set, receives the browser's cookies so the signature request
	// runs in the same session as the rendered page.
	Jar    http.CookieJar
	Logger *zap.Logger
}

var _ page.Source = (*Source)(nil)

// Load implements page.Source. A fresh browser is started and torn down per call.
func (s *Source) Load(ctx context.Context, pageURL string) (*page.Page, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("browser")

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, ExecOptions(s.Config)...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))
	defer cancelTab()

	timeout := s.Config.NavigationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	var (
		markup   string
		location string
		cookies  []*network.Cookie
	)
	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if s.Config.PostLoadWait > 0 {
		actions = append(actions, chromedp.Sleep(s.Config.PostLoadWait))
	}
	actions = append(actions,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
		chromedp.ActionFunc(func(c context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(c)
			if err != nil {
				logger.Warn("Failed to get cookies via CDP.", zap.Error(err))
			}
			return nil
		}),
	)

	logger.Debug("Rendering page.", zap.String("url", pageURL), zap.Duration("timeout", timeout))
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	doc, err := dom.ParseString(markup, logger)
	if err != nil {
		return nil, err
	}
	if location == "" {
		location = pageURL
	}
	if s.Jar != nil {
		CopyCookies(s.Jar, cookies)
	}
	logger.Info("Rendered page.", zap.String("url", location), zap.Int("cookies", len(cookies)))
	return &page.Page{URL: location, Document: doc}, nil
}

// ExecOptions translates the browser config into chromedp allocator options.
func ExecOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.DisableGPU {
		opts = append(opts, chromedp.DisableGPU)
	}
	for _, f := range parseArgs(cfg.Args) {
		opts = append(opts, chromedp.Flag(f.name, f.value))
	}
	return opts
}

type flag struct {
	name  string
	value interface{}
}

// parseArgs turns "--flag" and "flag=value" entries into allocator flags.
// chromedp adds the leading dashes itself.
func parseArgs(args []string) []flag {
	var flags []flag
	for _, arg := range args {
		arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			flags = append(flags, flag{name: name, value: value})
			continue
		}
		flags = append(flags, flag{name: arg, value: true})
	}
	return flags
}

// CopyCookies stores CDP cookies in an HTTP cookie jar.
func CopyCookies(jar http.CookieJar, cookies []*network.Cookie) {
	byHost := make(map[string][]*http.Cookie)
	for _, c := range cookies {
		if c == nil || c.Domain == "" {
			continue
		}
		host := strings.TrimPrefix(c.Domain, ".")
		byHost[host] = append(byHost[host], ToHTTPCookie(c))
	}
	for host, hc := range byHost {
		jar.SetCookies(&url.URL{Scheme: "https", Host: host, Path: "/"}, hc)
	}
}

// ToHTTPCookie converts a CDP cookie. Domain cookies (leading dot) keep
// their domain; host-only cookies are bound to the URL they are stored under.
func ToHTTPCookie(c *network.Cookie) *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	if strings.HasPrefix(c.Domain, ".") {
		hc.Domain = c.Domain
	}
	if !c.Session && c.Expires > 0 {
		hc.Expires = time.Unix(int64(c.Expires), 0)
	}
	switch c.SameSite {
	case network.CookieSameSiteStrict:
		hc.SameSite = http.SameSiteStrictMode
	case network.CookieSameSiteLax:
		hc.SameSite = http.SameSiteLaxMode
	case network.CookieSameSiteNone:
		hc.SameSite = http.SameSiteNoneMode
	}
	return hc
}
