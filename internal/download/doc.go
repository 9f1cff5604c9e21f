// Package download fetches jQuery releases. It scrapes the version index
// published on code.jquery.com, picks the latest stable release, and saves
// minified builds next to generated HTML files with a progress bar.
package download
