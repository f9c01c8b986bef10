// Package ingest imports transcript files into the corpus store. Plain text
// and Markdown files are taken verbatim; HTML exports are reduced to their
// visible text first.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/store"
)

var idCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Loader imports transcript files.
type Loader struct {
	store store.Store
}

// NewLoader creates a loader writing through the given store.
func NewLoader(st store.Store) *Loader {
	return &Loader{store: st}
}

// Result describes one imported file.
type Result struct {
	Path         string
	TranscriptID string
	WordCount    int
	Error        error
}

// LoadFile imports one transcript file. The transcript ID is derived from
// the file name; channelID groups transcripts into one baseline series.
// Re-importing the same file refreshes the stored text.
func (l *Loader) LoadFile(ctx context.Context, path, channelID, title, publishedAt string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = VisibleText(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".txt", ".md", "":
		// Used as-is
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", filepath.Ext(path))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &model.EmptyInputError{TranscriptID: path}
	}

	id := TranscriptID(path)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t := &model.Transcript{
		ID:          id,
		ChannelID:   channelID,
		Title:       title,
		PublishedAt: publishedAt,
		FullText:    text,
		WordCount:   lexicon.WordCount(text),
	}
	if err := l.store.UpsertTranscript(ctx, t); err != nil {
		return nil, fmt.Errorf("store %s: %w", id, err)
	}

	return &Result{Path: path, TranscriptID: id, WordCount: t.WordCount}, nil
}

// LoadDir imports every supported transcript file directly under dir, in
// name order. Per-file failures are reported in the results, not fatal.
func (l *Loader) LoadDir(ctx context.Context, dir, channelID string) ([]*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".md", ".html", ".htm":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var out []*Result
	for _, path := range paths {
		res, err := l.LoadFile(ctx, path, channelID, "", "")
		if err != nil {
			out = append(out, &Result{Path: path, Error: err})
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

// TranscriptID derives a stable identifier from a file path: the base name
// lowercased with runs of non-alphanumerics collapsed to single hyphens.
func TranscriptID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id := idCleanRe.ReplaceAllString(strings.ToLower(base), "-")
	return strings.Trim(id, "-")
}

// VisibleText reduces an HTML document to its visible text, skipping
// script, style and similar non-content elements.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String()), nil
}
