// Package fetch downloads Jupyter notebooks over HTTP(S).
//
// GitHub blob page URLs are converted to their raw content equivalents
// before download, so a link copied from the browser address bar works
// directly.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Client downloads notebooks with a proxy-aware HTTP client.
type Client struct {
	http *http.Client
}

// New returns a Client. An explicit proxy URL takes precedence over the
// HTTP_PROXY/HTTPS_PROXY environment variables.
func New(proxyURL string) *Client {
	return &Client{http: makeHTTPClient(proxyURL, 30*time.Second)}
}

// ConvertGitHubURL rewrites a GitHub blob page URL to the raw content
// URL. Anything else passes through unchanged.
func ConvertGitHubURL(rawurl string) string {
	if strings.Contains(rawurl, "github.com") && strings.Contains(rawurl, "/blob/") {
		rawurl = strings.ReplaceAll(rawurl, "github.com", "raw.githubusercontent.com")
		rawurl = strings.ReplaceAll(rawurl, "/blob/", "/")
	}
	return rawurl
}

// FilenameFromURL derives an output file name from the URL path,
// guaranteeing an .ipynb suffix.
func FilenameFromURL(rawurl string) string {
	parsed, err := url.Parse(rawurl)
	if err != nil {
		return "notebook.ipynb"
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		name = "notebook"
	}
	if !strings.HasSuffix(name, ".ipynb") {
		name += ".ipynb"
	}
	return name
}

// Download fetches the notebook at rawurl and writes it to outputPath.
// When outputPath is empty the file name is derived from the URL and
// written to the current directory. Returns the path written.
func (c *Client) Download(ctx context.Context, rawurl, outputPath string) (string, error) {
	target := ConvertGitHubURL(rawurl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", target, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP %s", target, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", target, err)
	}

	if outputPath == "" {
		outputPath = FilenameFromURL(rawurl)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// makeHTTPClient builds an HTTP client honoring an explicit proxy URL
// or, when none is given, the HTTP_PROXY/HTTPS_PROXY environment
// variables.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
