// Package library reads prompt snippets from a library directory.
//
// Files are addressed by slash-separated paths relative to the library
// root, exactly as they are written in profile dependency lists.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/macropower/prompter/api"
	"github.com/macropower/prompter/pkg/profile"
	"github.com/macropower/prompter/pkg/prompt"
)

// ErrNotDirectory is returned when the library root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Library is a directory of prompt snippets.
type Library struct {
	root string
}

// New creates a new [Library] rooted at root.
func New(root string) *Library {
	return &Library{root: root}
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// Path returns the filesystem path of a library-relative path.
func (l *Library) Path(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// Exists reports whether rel is a regular file in the library.
func (l *Library) Exists(rel string) bool {
	info, err := os.Stat(l.Path(rel))
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// Check returns an error if the library root does not exist or is not a
// directory.
func (l *Library) Check() error {
	info, err := os.Stat(l.root)
	if err != nil {
		return fmt.Errorf("stat library: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", l.root, ErrNotDirectory)
	}

	return nil
}

// Read returns the contents of rel.
func (l *Library) Read(rel string) ([]byte, error) {
	data, err := api.ReadFile(l.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	return data, nil
}

// Load reads every resolved file, in order.
//
// A file that does not exist yields a [*profile.MissingFileError] naming the
// profile that referenced it. Reading stops at the first error.
func (l *Library) Load(files profile.Files) ([]prompt.Document, error) {
	docs := make([]prompt.Document, 0, len(files))

	for _, f := range files {
		if !l.Exists(f.Path) {
			return nil, &profile.MissingFileError{Path: f.Path, ReferencedBy: f.ReferencedBy}
		}

		data, err := l.Read(f.Path)
		if err != nil {
			return nil, err
		}

		slog.Debug("read library file",
			slog.String("path", f.Path),
			slog.String("referenced_by", f.ReferencedBy),
			slog.Int("bytes", len(data)),
		)

		docs = append(docs, prompt.Document{Path: f.Path, Content: data})
	}

	return docs, nil
}

// Stats summarizes the contents of a library.
type Stats struct {
	// Files is the number of snippet files.
	Files int
	// Bytes is the total size of all snippet files.
	Bytes int64
}

// Stats walks the library and counts its snippet files.
func (l *Library) Stats() (Stats, error) {
	var s Stats

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !profile.Classify(d.Name()).IsFile() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		s.Files++
		s.Bytes += info.Size()

		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("walk library: %w", err)
	}

	return s, nil
}
