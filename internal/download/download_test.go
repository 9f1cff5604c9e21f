package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const indexPage = `<!DOCTYPE html>
<html><body>
<ul>
  <li>jQuery 3.7.1 - <a href="/jquery-3.7.1.js">uncompressed</a>, <a href="/jquery-3.7.1.min.js">minified</a></li>
  <li>jQuery 3.10.0 - <a href="/jquery-3.10.0.min.js">minified</a></li>
  <li>jQuery 4.0.0-beta - <a href="/jquery-4.0.0-beta.min.js">minified</a></li>
  <li>jQuery 1.12.4 - <a href="/jquery-1.12.4.min.js"> minified </a></li>
  <li>jQuery git - <a href="/jquery-git.min.js">minified</a></li>
  <li>Duplicate - <a href="/jquery-1.12.4.min.js">minified</a></li>
  <li><a href="/other.html">about</a></li>
</ul>
</body></html>`

func TestParseVersions(t *testing.T) {
	releases, err := ParseVersions(strings.NewReader(indexPage))
	if err != nil {
		t.Fatalf("ParseVersions: %v", err)
	}
	var got []string
	for _, r := range releases {
		got = append(got, r.Version)
	}
	want := "1.12.4,3.7.1,3.10.0,4.0.0-beta,git"
	if strings.Join(got, ",") != want {
		t.Errorf("versions = %s, want %s", strings.Join(got, ","), want)
	}
	if releases[0].Link != "jquery-1.12.4.min.js" {
		t.Errorf("Link = %q, want leading slash trimmed", releases[0].Link)
	}
}

func TestLatest(t *testing.T) {
	releases, err := ParseVersions(strings.NewReader(indexPage))
	if err != nil {
		t.Fatal(err)
	}
	latest, ok := Latest(releases)
	if !ok {
		t.Fatal("no latest release")
	}
	if latest.Version != "3.10.0" {
		t.Errorf("Latest = %q, want %q", latest.Version, "3.10.0")
	}

	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) found a release")
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jquery/":
			fmt.Fprint(w, indexPage)
		case "/jquery-3.7.1.min.js":
			w.Header().Set("Content-Length", "16")
			fmt.Fprint(w, "/* jquery 3.7 */")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientVersions(t *testing.T) {
	server := newServer(t)
	c := New(WithHTTPClient(server.Client()), WithIndexURL(server.URL+"/jquery/"))

	releases, err := c.Versions(context.Background())
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(releases) != 5 {
		t.Errorf("len(releases) = %d, want 5", len(releases))
	}
}

func TestClientFetch(t *testing.T) {
	server := newServer(t)
	c := New(WithHTTPClient(server.Client()), WithBaseURL(server.URL), WithProgress(nil))
	dest := filepath.Join(t.TempDir(), FileName("3.7.1"))

	ok, err := c.Fetch(context.Background(), "3.7.1", dest)
	if err != nil || !ok {
		t.Fatalf("Fetch = %v, %v", ok, err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/* jquery 3.7 */" {
		t.Errorf("content = %q", data)
	}

	ok, err = c.Fetch(context.Background(), "3.7.1", dest)
	if err != nil || ok {
		t.Errorf("second Fetch = %v, %v, want existing file kept", ok, err)
	}
}

func TestClientFetchUnknown(t *testing.T) {
	server := newServer(t)
	c := New(WithHTTPClient(server.Client()), WithBaseURL(server.URL+"/"), WithProgress(nil))
	dest := filepath.Join(t.TempDir(), FileName("0.0.0"))

	_, err := c.Fetch(context.Background(), "0.0.0", dest)
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("err = %v, want ErrUnknownVersion", err)
	}
	if !strings.Contains(err.Error(), "jquerydl") {
		t.Errorf("err = %q, want listing hint", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("failed download left a file behind")
	}
}

func TestURL(t *testing.T) {
	c := New(WithBaseURL("https://example.com/js"))
	if got := c.URL("3.7.1"); got != "https://example.com/js/jquery-3.7.1.min.js" {
		t.Errorf("URL = %q", got)
	}
}
