// Package inlabs implements the authenticated client for the InLabs
// portal (inlabs.in.gov.br), which distributes DOU editions as zip
// archives of XML fragments.
package inlabs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"douvigia/internal/common"
)

// Config carries the portal endpoint and credentials.
type Config struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

// Client is an authenticated session against the InLabs portal.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	user       string
	password   string
	progress   bool
}

// NewClient builds a client; credentials are validated at Login time, the
// endpoint here.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://inlabs.in.gov.br"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inlabs base URL: %v", common.ErrInvalidConfig, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		baseURL:    base,
		user:       cfg.User,
		password:   cfg.Password,
		progress:   true,
	}, nil
}

// SetProgress toggles the download progress bar (off for non-interactive
// runs).
func (c *Client) SetProgress(enabled bool) {
	c.progress = enabled
}

// Login authenticates the session with the portal's form login. The
// portal sets its session cookie on the first GET, so the base page is
// primed before posting credentials.
func (c *Client) Login(ctx context.Context) error {
	if c.user == "" || c.password == "" {
		return fmt.Errorf("%w: inlabs user and password", common.ErrMissingConfig)
	}

	if resp, err := c.get(ctx, c.baseURL.String()); err == nil {
		_ = resp.Body.Close()
	}

	form := url.Values{}
	form.Set("email", c.user)
	form.Set("password", c.password)

	loginURL := c.resolve("/login")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLoginFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: HTTP %d", common.ErrLoginFailed, resp.StatusCode)
	}
	return nil
}

// ListArchives returns the absolute URLs of the day's edition zips whose
// listing label mentions one of the wanted sections (DO1, DO2, ...).
func (c *Client) ListArchives(ctx context.Context, day string, sections []string) ([]string, error) {
	listingURL, err := c.resolveDayURL(ctx, day)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("open listing %s: %w", listingURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("open listing %s: HTTP %d", listingURL, resp.StatusCode)
	}

	links, err := pickZipLinks(resp.Body, listingURL, sections)
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", listingURL, err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", common.ErrNoEditions, day, strings.Join(sections, ","))
	}
	return links, nil
}

// resolveDayURL finds the portal folder for a publication day. The home
// page usually links it directly; otherwise fall back to the conventional
// /<day>/ path.
func (c *Client) resolveDayURL(ctx context.Context, day string) (string, error) {
	resp, err := c.get(ctx, c.baseURL.String())
	if err != nil {
		return "", fmt.Errorf("open portal home: %w", err)
	}
	href, findErr := findDayLink(resp.Body, day)
	_ = resp.Body.Close()
	if findErr == nil && href != "" {
		return c.resolve(href), nil
	}

	fallback := c.resolve("/" + day + "/")
	probe, err := c.get(ctx, fallback)
	if err != nil {
		return "", fmt.Errorf("probe day folder %s: %w", fallback, err)
	}
	_ = probe.Body.Close()
	if probe.StatusCode == http.StatusOK {
		return fallback, nil
	}
	return "", fmt.Errorf("%w: no folder for %s", common.ErrNoEditions, day)
}

// DownloadArchive fetches one edition zip into memory.
func (c *Client) DownloadArchive(ctx context.Context, archiveURL string) ([]byte, error) {
	resp, err := c.get(ctx, archiveURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", archiveURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("download %s: HTTP %d", archiveURL, resp.StatusCode)
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	if c.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, path.Base(archiveURL))
		dst = io.MultiWriter(&buf, bar)
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return nil, fmt.Errorf("download %s: %w", archiveURL, err)
	}

	slog.Debug("downloaded edition", "url", archiveURL, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func (c *Client) resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(parsed).String()
}
