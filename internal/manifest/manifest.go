// Package manifest loads a site's post manifest and renders the post
// navigation and index listings from it.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var ErrNoManifest = errors.New("manifest: not available")

type Post struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	HTML     string `json:"html"`
	PDF      string `json:"pdf,omitempty"`
	Modified string `json:"modified"`
	Commit   string `json:"commit,omitempty"`
	Format   string `json:"format,omitempty"`
}

type Manifest struct {
	Site  map[string]any `json:"site,omitempty"`
	Posts []Post         `json:"posts"`
}

// Find returns the post with the given slug.
func (m *Manifest) Find(slug string) (Post, bool) {
	for _, p := range m.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Source fetches a manifest from somewhere.
type Source interface {
	Fetch(ctx context.Context) (*Manifest, error)
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) (*Manifest, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load manifest: %s", resp.Status)
	}
	return Decode(resp.Body)
}

type FileSource struct {
	Path string
}

func (s FileSource) Fetch(context.Context) (*Manifest, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// SourceFor picks an HTTP source for http(s) URLs and a file source
// otherwise.
func SourceFor(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{URL: location}
	}
	return FileSource{Path: location}
}

// Loader fetches the manifest once and keeps the outcome for the life of
// the process. A failed fetch is not retried. The fetch is detached from
// the first caller's cancellation so an abandoned request cannot fail it
// for everyone else.
type Loader struct {
	src  Source
	once sync.Once
	m    *Manifest
	err  error
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

func (l *Loader) Load(ctx context.Context) (*Manifest, error) {
	l.once.Do(func() {
		m, err := l.src.Fetch(context.WithoutCancel(ctx))
		switch {
		case err != nil:
			log.Error("error loading manifest", "err", err)
			l.err = fmt.Errorf("%w: %v", ErrNoManifest, err)
		case m.Posts == nil:
			log.Error("manifest has no posts")
			l.err = fmt.Errorf("%w: no posts found", ErrNoManifest)
		default:
			log.Debug("manifest loaded", "posts", len(m.Posts))
			l.m = m
		}
	})
	return l.m, l.err
}
