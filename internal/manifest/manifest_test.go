package manifest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const sample = `{
  "site": {"title": "Notes"},
  "posts": [
    {"slug": "intro", "title": "Intro", "html": "posts/intro.html", "pdf": "posts/intro.pdf",
     "modified": "2024-01-15T10:30:00", "commit": "abc123", "format": "typst"},
    {"slug": "rows", "title": "Rows & Ticks", "html": "posts/rows.html", "pdf": null,
     "modified": "2024-03-02", "format": "markdown"}
  ]
}`

func sampleManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-15T10:30:00", "January 15, 2024"},
		{"2024-01-15T10:30:00.123456", "January 15, 2024"},
		{"2024-03-02", "March 2, 2024"},
		{"2024-12-31T23:59:59Z", "December 31, 2024"},
		{"2024-06-01T00:00:00+02:00", "June 1, 2024"},
		{"yesterday", "Invalid Date"},
		{"", "Invalid Date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderNav(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderNav(&buf, sampleManifest(t), "rows"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`<a href="intro.html">Intro</a>`,
		`<a href="intro.pdf" class="pdf-link"`,
		`<div class="post-item active">`,
		`Rows &amp; Ticks`,
		`January 15, 2024`,
		`March 2, 2024`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("nav missing %q\n%s", want, out)
		}
	}
	if strings.Count(out, "active") != 1 {
		t.Errorf("expected exactly one active item")
	}
	if strings.Count(out, "pdf-link") != 1 {
		t.Errorf("post without pdf got a pdf link")
	}
}

func TestRenderIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderIndex(&buf, sampleManifest(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `href="posts/intro.html"`) || !strings.Contains(out, `href="posts/intro.pdf"`) {
		t.Errorf("index should use full paths:\n%s", out)
	}
	if strings.Contains(out, "active") {
		t.Error("index has no active item")
	}
}

func TestRender_NoManifest(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderNav(&buf, nil, "x"); !errors.Is(err, ErrNoManifest) {
		t.Errorf("RenderNav(nil) = %v", err)
	}
	if err := RenderIndex(&buf, &Manifest{}); !errors.Is(err, ErrNoManifest) {
		t.Errorf("RenderIndex(no posts) = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written")
	}
}

func TestLoader_HTTPFetchesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	l := NewLoader(SourceFor(srv.URL + "/manifest.json"))
	for i := 0; i < 3; i++ {
		m, err := l.Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(m.Posts) != 2 {
			t.Fatalf("posts = %d", len(m.Posts))
		}
	}
	if hits.Load() != 1 {
		t.Errorf("manifest fetched %d times", hits.Load())
	}
}

func TestLoader_FailureIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(HTTPSource{URL: srv.URL})
	for i := 0; i < 2; i++ {
		if _, err := l.Load(context.Background()); !errors.Is(err, ErrNoManifest) {
			t.Fatalf("Load() = %v, want ErrNoManifest", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("failed fetch retried: %d hits", hits.Load())
	}
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := NewLoader(SourceFor(path)).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := m.Find("intro"); !ok || p.Commit != "abc123" {
		t.Errorf("Find(intro) = %+v, %v", p, ok)
	}
	if m.Site["title"] != "Notes" {
		t.Errorf("site = %v", m.Site)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	os.WriteFile(missing, []byte(`{"site": {}}`), 0o644)
	if _, err := NewLoader(FileSource{Path: missing}).Load(context.Background()); !errors.Is(err, ErrNoManifest) {
		t.Errorf("manifest without posts: %v", err)
	}
}

func TestLoader_EmptyPostList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"posts": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := NewLoader(FileSource{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("empty post list rejected: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderNav(&buf, m, "intro"); err != nil {
		t.Fatal(err)
	}
	if err := RenderIndex(&buf, m); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "post-item") {
		t.Errorf("empty list rendered items: %q", buf.String())
	}
}

func TestLoader_CancelledFirstCaller(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	l := NewLoader(HTTPSource{URL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("Load(cancelled) = %v", err)
	}

	m, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Posts) != 2 {
		t.Errorf("posts = %d", len(m.Posts))
	}
	if hits.Load() != 1 {
		t.Errorf("manifest fetched %d times", hits.Load())
	}
}
