package manifest

import (
	"html/template"
	"io"
	"path"
	"time"
)

var itemTmpl = template.Must(template.New("items").Parse(`{{range .}}
<div class="post-item{{if .Active}} active{{end}}">
    <a href="{{.Href}}">{{.Title}}</a>
    {{- if .PDF}}
    <a href="{{.PDF}}" class="pdf-link" title="Download PDF">📄</a>
    {{- end}}
    <div class="post-meta">{{.Date}}</div>
</div>{{end}}
`))

type item struct {
	Href   string
	Title  string
	PDF    string
	Date   string
	Active bool
}

// RenderNav writes the post navigation for a post page. Links point at
// the basename of each file so they resolve next to the current post; the
// post whose slug matches current is marked active.
func RenderNav(w io.Writer, m *Manifest, current string) error {
	if m == nil || m.Posts == nil {
		return ErrNoManifest
	}
	items := make([]item, 0, len(m.Posts))
	for _, p := range m.Posts {
		it := item{
			Href:   path.Base(p.HTML),
			Title:  p.Title,
			Date:   FormatDate(p.Modified),
			Active: p.Slug == current,
		}
		if p.PDF != "" {
			it.PDF = path.Base(p.PDF)
		}
		items = append(items, it)
	}
	return itemTmpl.Execute(w, items)
}

// RenderIndex writes the post listing for the site index using the full
// manifest paths.
func RenderIndex(w io.Writer, m *Manifest) error {
	if m == nil || m.Posts == nil {
		return ErrNoManifest
	}
	items := make([]item, 0, len(m.Posts))
	for _, p := range m.Posts {
		items = append(items, item{
			Href:  p.HTML,
			Title: p.Title,
			PDF:   p.PDF,
			Date:  FormatDate(p.Modified),
		})
	}
	return itemTmpl.Execute(w, items)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDate renders an ISO 8601 timestamp as "January 2, 2006" in the
// timestamp's own zone. Unparseable input yields "Invalid Date".
func FormatDate(iso string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return "Invalid Date"
}
