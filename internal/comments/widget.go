// Package comments builds mailto links that let readers comment on a
// single block of a post, and marks up post HTML with those links.
package comments

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrBadAddress = errors.New("comments: address must contain @")

const (
	previewLen   = 50
	selectionLen = 30
)

// Address tags base with the post, commit and block so replies can be
// routed: "me@host" becomes "me+post-commit-block@host". Blocks from
// AnnotateHTML are "p0", "h0" and so on, so paragraph replies route on
// "-p0@" rather than a bare index; mail filters keyed on "-0@" need
// updating.
func Address(base, post, commit, block string) (string, error) {
	local, domain, ok := strings.Cut(base, "@")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadAddress, base)
	}
	return fmt.Sprintf("%s+%s-%s-%s@%s", local, post, commit, block, domain), nil
}

// Widget holds the per-post context for comment links.
type Widget struct {
	Email  string
	Post   string
	Commit string
}

// Link returns the mailto URL for commenting on block, quoting the start
// of its text.
func (w Widget) Link(block, text string) (string, error) {
	addr, err := Address(w.Email, w.Post, w.Commit, block)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Re: %s - %s", w.Post, block)
	body := fmt.Sprintf("Regarding: \"%s...\"\n\nBlock: %s\nCommit: %s\n\n---\n\n[Your comment here]",
		prefix(strings.TrimSpace(text), previewLen), block, w.Commit)
	return mailto(addr, subject, body), nil
}

// SelectionLink returns the mailto URL for a highlighted passage inside
// block.
func (w Widget) SelectionLink(block, selection string) (string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return "", errors.New("comments: empty selection")
	}
	addr, err := Address(w.Email, w.Post, w.Commit, block)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Re: \"%s...\"", prefix(selection, selectionLen))
	body := fmt.Sprintf("You highlighted:\n\"%s\"\n\nBlock: %s\nCommit: %s\n\n---\n\n[Your comment here]",
		selection, block, w.Commit)
	return mailto(addr, subject, body), nil
}

func mailto(addr, subject, body string) string {
	return "mailto:" + addr + "?subject=" + encodeComponent(subject) + "&body=" + encodeComponent(body)
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s the way browsers escape a URI component.
func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
