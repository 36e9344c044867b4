// Package docs fetches element documentation from the upstream documentation
// site. Fetches are slow, cached, and allowed to fail: a failure never touches
// registry or negotiator state, and a locally generated summary stands in when
// the network is unavailable.
package docs

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/pkg/cache"
	"github.com/c360/pipewright/pkg/retry"
)

const (
	defaultBaseURL     = "https://gstreamer.freedesktop.org/documentation"
	defaultCacheSize   = 128
	defaultCacheTTL    = time.Hour
	defaultHTTPTimeout = 10 * time.Second
	maxBodyBytes       = 1 << 20
)

// Fetcher retrieves element documentation pages
type Fetcher struct {
	registry element.Registry
	client   *http.Client
	baseURL  string
	cache    *cache.LRU[string]
	retryCfg retry.Config
	logger   *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithBaseURL overrides the documentation site root
func WithBaseURL(url string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithRetryConfig overrides the fetch retry policy
func WithRetryConfig(cfg errors.RetryConfig) Option {
	return func(f *Fetcher) { f.retryCfg = cfg.ToRetryConfig() }
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

// NewFetcher creates a Fetcher backed by the given registry
func NewFetcher(registry element.Registry, opts ...Option) *Fetcher {
	pages, err := cache.NewLRU[string](defaultCacheSize, defaultCacheTTL)
	if err != nil {
		panic(err)
	}
	f := &Fetcher{
		registry: registry,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:  defaultBaseURL,
		cache:    pages,
		retryCfg: errors.DefaultRetryConfig().ToRetryConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the documentation text for an element. Pages are tried under
// each plausible plugin path; when every fetch fails, a summary generated
// from the registry is returned instead.
func (f *Fetcher) Fetch(ctx context.Context, elementName string) (string, error) {
	if cached, ok := f.cache.Get(elementName); ok {
		return cached, nil
	}

	var lastErr error
	for _, url := range f.candidateURLs(elementName) {
		text, err := f.fetchPage(ctx, url)
		if err == nil {
			f.cache.Set(elementName, text)
			return text, nil
		}
		lastErr = err
		f.logger.Debug("documentation fetch failed", "element", elementName, "url", url, "error", err)
	}

	if summary, ok := f.localSummary(elementName); ok {
		f.logger.Info("serving local documentation summary", "element", elementName)
		return summary, nil
	}
	return "", errors.WrapTransient(
		fmt.Errorf("%w: %s: %w", errors.ErrFetchFailed, elementName, lastErr),
		"Fetcher", "Fetch",
		"check network connectivity to the documentation site")
}

// candidateURLs guesses the plugin directory an element's page lives under
func (f *Fetcher) candidateURLs(elementName string) []string {
	var plugins []string
	if info, ok := f.registry.Get(elementName); ok && info.Plugin != "" {
		plugins = append(plugins, info.Plugin)
	}
	plugins = append(plugins, elementName)
	// rtpjitterbuffer lives under rtpmanager-style names, srtpacketizers
	// under their protocol; stripping a known prefix covers most of these
	for _, prefix := range []string{"auto", "av", "rtp"} {
		if trimmed := strings.TrimPrefix(elementName, prefix); trimmed != elementName && trimmed != "" {
			plugins = append(plugins, trimmed)
		}
	}

	seen := make(map[string]bool)
	var urls []string
	for _, plugin := range plugins {
		if seen[plugin] {
			continue
		}
		seen[plugin] = true
		urls = append(urls, fmt.Sprintf("%s/%s/%s.html", f.baseURL, plugin, elementName))
	}
	return urls
}

func (f *Fetcher) fetchPage(ctx context.Context, url string) (string, error) {
	return retry.DoWithResult(ctx, f.retryCfg, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", retry.NonRetryable(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return "", errors.WrapTransient(err, "Fetcher", "fetchPage", "the request will be retried")
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			if err != nil {
				return "", errors.WrapTransient(err, "Fetcher", "fetchPage", "the request will be retried")
			}
			return extractText(string(body)), nil
		case resp.StatusCode == http.StatusNotFound:
			// wrong plugin guess, move on to the next candidate
			return "", retry.NonRetryable(fmt.Errorf("%s: %s", url, resp.Status))
		case resp.StatusCode >= 500:
			return "", errors.WrapTransient(fmt.Errorf("%s: %s", url, resp.Status),
				"Fetcher", "fetchPage", "the request will be retried")
		default:
			return "", retry.NonRetryable(fmt.Errorf("%s: %s", url, resp.Status))
		}
	})
}

// extractText reduces an HTML page to readable text: script and style
// bodies are dropped, tags become whitespace, entities are decoded. Plain
// text input passes through unchanged apart from trimming.
func extractText(body string) string {
	if !strings.Contains(body, "<") {
		return strings.TrimSpace(body)
	}

	var b strings.Builder
	b.Grow(len(body))
	skipUntil := ""
	inTag := false
	var tag strings.Builder
	for _, r := range body {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
				name := tagName(tag.String())
				switch {
				case skipUntil != "":
					if name == "/"+skipUntil {
						skipUntil = ""
					}
				case name == "script" || name == "style":
					skipUntil = name
				case name == "p" || name == "br" || name == "/p" || name == "li" ||
					strings.HasPrefix(name, "h") || strings.HasPrefix(name, "/h"):
					b.WriteByte('\n')
				}
				tag.Reset()
			} else {
				tag.WriteRune(r)
			}
		case r == '<':
			inTag = true
		case skipUntil == "":
			b.WriteRune(r)
		}
	}

	text := html.UnescapeString(b.String())
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

func tagName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, r := range raw {
		if r == ' ' || r == '\t' || r == '\n' {
			return raw[:i]
		}
	}
	return raw
}

// localSummary renders registry metadata as plain text
func (f *Fetcher) localSummary(elementName string) (string, bool) {
	info, ok := f.registry.Get(elementName)
	if !ok {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", info.Name)
	if info.LongName != "" {
		fmt.Fprintf(&b, "%s\n", info.LongName)
	}
	fmt.Fprintf(&b, "%s\n\n", info.Description)
	fmt.Fprintf(&b, "Klass: %s\nRank: %s\n\n", info.Klass, info.Rank)

	b.WriteString("Pad templates:\n")
	for _, tmpl := range info.PadTemplates {
		fmt.Fprintf(&b, "  %s (%s, %s): %s\n", tmpl.Name, tmpl.Direction, tmpl.Presence, tmpl.Caps)
	}
	if len(info.Properties) > 0 {
		b.WriteString("\nProperties:\n")
		for _, prop := range info.Properties {
			fmt.Fprintf(&b, "  %s (%s): %s\n", prop.Name, prop.Type, prop.Description)
		}
	}
	return b.String(), true
}
