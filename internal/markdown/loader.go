package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// Document is one parsed markdown file ready for import.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	Checksum     []byte
}

// LoaderConfig configures file discovery within the loader's filesystem.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
}

// Loader turns filesystem paths into parsed markdown documents.
type Loader struct {
	fs      fs.FS
	pattern string
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{fs: filesystem, pattern: pattern}
}

// LoadFile reads and parses a single markdown document.
func (l *Loader) LoadFile(ctx context.Context, filePath string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := path.Clean(strings.TrimPrefix(filePath, "/"))

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader parse %s: %w", rel, err)
	}

	sum := sha256.Sum256(data)
	return &Document{
		FilePath:     rel,
		FrontMatter:  meta,
		Body:         body,
		LastModified: info.ModTime(),
		Checksum:     sum[:],
	}, nil
}

// LoadDirectory discovers markdown files under dir and returns parsed
// documents ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var docs []*Document
	walkErr := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := path.Match(l.pattern, path.Base(p)); !ok {
			return nil
		}
		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", root, walkErr)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].FilePath < docs[j].FilePath })
	return docs, nil
}
