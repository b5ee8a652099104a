package comments

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoContent = errors.New("comments: no #content element")

// Block is one commentable element of a post.
type Block struct {
	ID   string
	Tag  string
	Text string
}

// AnnotateHTML parses a page, attaches a comment link to every paragraph
// and then every h1-h3 heading inside #content, and writes the page back.
// Paragraph ids run p0, p1, ... and heading ids h0, h1, ... in document
// order.
func (w Widget) AnnotateHTML(r io.Reader, out io.Writer) ([]Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	content := findByID(doc, "content")
	if content == nil {
		log.Warn("no content element, nothing annotated", "post", w.Post)
		return nil, ErrNoContent
	}

	var paras, heads []*html.Node
	walk(content, func(n *html.Node) {
		switch n.DataAtom {
		case atom.P:
			paras = append(paras, n)
		case atom.H1, atom.H2, atom.H3:
			heads = append(heads, n)
		}
	})

	blocks := make([]Block, 0, len(paras)+len(heads))
	for i, n := range paras {
		b, err := w.annotate(n, fmt.Sprintf("p%d", i))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	for i, n := range heads {
		b, err := w.annotate(n, fmt.Sprintf("h%d", i))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	if err := html.Render(out, doc); err != nil {
		return nil, err
	}
	log.Debug("annotated post", "post", w.Post, "blocks", len(blocks))
	return blocks, nil
}

func (w Widget) annotate(n *html.Node, id string) (Block, error) {
	text := strings.TrimSpace(textContent(n))
	href, err := w.Link(id, text)
	if err != nil {
		return Block{}, err
	}

	setAttr(n, "data-block-id", id)
	addClass(n, "commentable")
	n.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "comment-btn"},
			{Key: "href", Val: href},
			{Key: "title", Val: "Comment via email"},
		},
	})
	n.LastChild.AppendChild(&html.Node{Type: html.TextNode, Data: "💬"})

	return Block{ID: id, Tag: n.Data, Text: text}, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walk(c, fn)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return
			}
		}
		n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
