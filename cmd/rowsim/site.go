package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/san-kum/rowsim/internal/comments"
	"github.com/san-kum/rowsim/internal/manifest"
)

var (
	manifestFlag string
	postSlug     string
	commitHash   string
	commentEmail string
	watch        bool
	selection    bool
)

func siteCommands() []*cobra.Command {
	navCmd := &cobra.Command{
		Use:   "nav [slug]",
		Short: "print the post navigation list, marking slug active",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printNav,
	}
	navCmd.Flags().StringVar(&manifestFlag, "manifest", "", "manifest URL or file (default from config)")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "print the post index",
		Args:  cobra.NoArgs,
		RunE:  printIndex,
	}
	indexCmd.Flags().StringVar(&manifestFlag, "manifest", "", "manifest URL or file (default from config)")

	annotateCmd := &cobra.Command{
		Use:   "annotate [file]",
		Short: "add email comment links to a post's paragraphs and headings",
		Long: `Reads an HTML post, or a markdown one when the file ends in .md,
and writes it back with a comment link after every paragraph and h1-h3
heading inside #content.`,
		Args: cobra.ExactArgs(1),
		RunE: annotate,
	}
	annotateCmd.Flags().StringVar(&postSlug, "post", "", "post slug (default file name)")
	annotateCmd.Flags().StringVar(&commitHash, "commit", "", "commit the post was built from")
	annotateCmd.Flags().StringVar(&commentEmail, "email", "", "comment address (default from config)")
	annotateCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	annotateCmd.Flags().BoolVar(&watch, "watch", false, "annotate again whenever the file changes")

	mailtoCmd := &cobra.Command{
		Use:   "mailto [block] [text]",
		Short: "print the comment link for one block",
		Args:  cobra.ExactArgs(2),
		RunE:  printMailto,
	}
	mailtoCmd.Flags().StringVar(&postSlug, "post", "", "post slug")
	mailtoCmd.Flags().StringVar(&commitHash, "commit", "", "commit the post was built from")
	mailtoCmd.Flags().StringVar(&commentEmail, "email", "", "comment address (default from config)")
	mailtoCmd.Flags().BoolVar(&selection, "selection", false, "text is a highlighted selection")

	return []*cobra.Command{navCmd, indexCmd, annotateCmd, mailtoCmd}
}

func loadManifest(ctx context.Context) (*manifest.Manifest, error) {
	loader := manifestLoader(manifestFlag)
	if loader == nil {
		return nil, fmt.Errorf("%w: set --manifest or site.manifest", manifest.ErrNoManifest)
	}
	return loader.Load(ctx)
}

func printNav(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd.Context())
	if err != nil {
		return err
	}
	current := ""
	if len(args) == 1 {
		current = args[0]
	}
	return manifest.RenderNav(os.Stdout, m, current)
}

func printIndex(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd.Context())
	if err != nil {
		return err
	}
	return manifest.RenderIndex(os.Stdout, m)
}

func widget(defaultPost string) (comments.Widget, error) {
	email := commentEmail
	if email == "" {
		email = cfg.Site.CommentEmail
	}
	if email == "" {
		return comments.Widget{}, fmt.Errorf("%w: set --email or site.comment_email", comments.ErrBadAddress)
	}
	post := postSlug
	if post == "" {
		post = defaultPost
	}
	return comments.Widget{Email: email, Post: post, Commit: commitHash}, nil
}

func printMailto(cmd *cobra.Command, args []string) error {
	w, err := widget("")
	if err != nil {
		return err
	}
	var link string
	if selection {
		link, err = w.SelectionLink(args[0], args[1])
	} else {
		link, err = w.Link(args[0], args[1])
	}
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func annotate(cmd *cobra.Command, args []string) error {
	path := args[0]
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w, err := widget(slug)
	if err != nil {
		return err
	}

	if err := annotateFile(w, path); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, path, func() {
		if err := annotateFile(w, path); err != nil {
			log.Error("annotate failed", "file", path, "err", err)
		}
	})
}

func annotateFile(w comments.Widget, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var in io.Reader = bytes.NewReader(src)
	if isMarkdown(path) {
		var rendered bytes.Buffer
		if err := comments.RenderMarkdown(&rendered, src); err != nil {
			return err
		}
		in = &rendered
	}

	var out bytes.Buffer
	blocks, err := w.AnnotateHTML(in, &out)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(out.Bytes())
		return err
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return err
	}
	log.Info("annotated", "file", path, "blocks", len(blocks), "out", outPath)
	return nil
}

// watchFile calls fn after every write to path until ctx is done. The
// parent directory is watched so editors that replace the file on save
// are still seen.
func watchFile(ctx context.Context, path string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Info("watching", "file", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Warn("watch events dropped", "err", err)
				continue
			}
			return err
		}
	}
}
