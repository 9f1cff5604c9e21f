package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/platform"
)

const (
	// DefaultIndexURL lists every published jQuery build.
	DefaultIndexURL = "https://code.jquery.com/jquery/"
	// DefaultBaseURL serves the builds themselves.
	DefaultBaseURL = "https://code.jquery.com/"
)

// ErrUnknownVersion is wrapped when the requested build does not exist.
var ErrUnknownVersion = errors.New("unknown jquery version")

// Client downloads jQuery builds.
type Client struct {
	httpClient *http.Client
	indexURL   string
	baseURL    string
	progress   io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithIndexURL sets the page that lists the available versions.
func WithIndexURL(url string) Option {
	return func(cl *Client) {
		cl.indexURL = url
	}
}

// WithBaseURL sets the URL the builds are downloaded from.
func WithBaseURL(url string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimSuffix(url, "/") + "/"
	}
}

// WithProgress sets where the progress bar is drawn. Nil disables it.
func WithProgress(w io.Writer) Option {
	return func(cl *Client) {
		cl.progress = w
	}
}

// New creates a Client for code.jquery.com.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		indexURL:   DefaultIndexURL,
		baseURL:    DefaultBaseURL,
		progress:   os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FileName returns the minified build name of version.
func FileName(version string) string {
	return "jquery-" + version + ".min.js"
}

// URL returns the download URL of version.
func (c *Client) URL(version string) string {
	return c.baseURL + FileName(version)
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-jquerydl")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return resp, nil
}

// Fetch saves the minified build of version to dest. An existing dest is
// left alone and reported as not downloaded.
func (c *Client) Fetch(ctx context.Context, version, dest string) (bool, error) {
	if platform.Exists(dest) {
		return false, nil
	}

	url := c.URL(version)
	resp, err := c.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, fmt.Errorf("unable to download %s: %w\nUse `%s jquerydl` to list known versions",
			url, ErrUnknownVersion, branding.CLIName())
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unable to download %s: status %d", url, resp.StatusCode)
	}

	var buf bytes.Buffer
	w := io.Writer(&buf)
	if c.progress != nil {
		bar := newBar(c.progress, resp.ContentLength, FileName(version))
		w = io.MultiWriter(&buf, bar)
		defer bar.Close()
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return false, fmt.Errorf("reading download stream: %w", err)
	}

	if err := platform.WriteFile(dest, buf.Bytes()); err != nil {
		return false, fmt.Errorf("saving %s: %w", dest, err)
	}
	return true, nil
}

func newBar(w io.Writer, size int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription("Downloading "+name),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
	)
}
