package comments

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// RenderMarkdown converts a markdown post to HTML wrapped in the #content
// element that AnnotateHTML looks for.
func RenderMarkdown(w io.Writer, src []byte) error {
	var buf bytes.Buffer
	if err := newMarkdown().Convert(src, &buf); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<div id=\"content\">\n%s</div>\n", buf.Bytes())
	return err
}

// BlocksFromMarkdown lists the blocks AnnotateHTML would find in the
// rendered markdown, with the same ids.
func BlocksFromMarkdown(src []byte) []Block {
	doc := newMarkdown().Parser().Parse(text.NewReader(src))

	var paras, heads []Block
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Paragraph:
			paras = append(paras, Block{
				ID:   fmt.Sprintf("p%d", len(paras)),
				Tag:  "p",
				Text: nodeText(n, src),
			})
		case *ast.Heading:
			if n.Level <= 3 {
				heads = append(heads, Block{
					ID:   fmt.Sprintf("h%d", len(heads)),
					Tag:  fmt.Sprintf("h%d", n.Level),
					Text: nodeText(n, src),
				})
			}
		}
		return ast.WalkContinue, nil
	})
	return append(paras, heads...)
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
