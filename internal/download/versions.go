package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/net/html"
)

// Release is one downloadable jQuery build.
type Release struct {
	Version string
	Link    string // path relative to the base URL

	semver *semver.Version
}

// Stable reports whether the version is a numbered, non-prerelease release.
func (r Release) Stable() bool {
	return r.semver != nil && r.semver.Prerelease() == ""
}

// Versions fetches the index page and returns the minified builds it lists.
func (c *Client) Versions(ctx context.Context) ([]Release, error) {
	resp, err := c.get(ctx, c.indexURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", c.indexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", c.indexURL, resp.StatusCode)
	}
	return ParseVersions(resp.Body)
}

// ParseVersions extracts the "minified" download links of an index page.
// Numbered versions are sorted ascending, followed by the rest by name.
func ParseVersions(r io.Reader) ([]Release, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing version index: %w", err)
	}

	seen := map[string]bool{}
	var releases []Release
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" && strings.TrimSpace(text(n)) == "minified" {
				rel := releaseOf(href)
				if rel.Version != "" && !seen[rel.Version] {
					seen[rel.Version] = true
					releases = append(releases, rel)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	sort.SliceStable(releases, func(i, j int) bool {
		a, b := releases[i].semver, releases[j].semver
		switch {
		case a != nil && b != nil:
			return a.LessThan(b)
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return releases[i].Version < releases[j].Version
	})
	return releases, nil
}

// Latest returns the newest stable release.
func Latest(releases []Release) (Release, bool) {
	var best Release
	found := false
	for _, r := range releases {
		if !r.Stable() {
			continue
		}
		if !found || r.semver.GreaterThan(best.semver) {
			best, found = r, true
		}
	}
	return best, found
}

// releaseOf turns "/jquery-3.7.1.min.js" into version "3.7.1".
func releaseOf(href string) Release {
	link := strings.TrimLeft(href, "/")
	name := link[strings.LastIndex(link, "/")+1:]
	_, rest, ok := strings.Cut(name, "-")
	if !ok {
		return Release{}
	}
	ver := strings.TrimSuffix(strings.TrimSuffix(rest, ".js"), ".min")
	rel := Release{Version: ver, Link: link}
	if v, err := semver.StrictNewVersion(ver); err == nil {
		rel.semver = v
	}
	return rel
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
