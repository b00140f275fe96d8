package library

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/macropower/prompter/api"
)

//go:embed scaffold
var scaffoldFS embed.FS

const scaffoldDir = "scaffold"

// ScaffoldFiles returns the library-relative paths of the sample files
// written by [Library.Scaffold], in lexical order.
func ScaffoldFiles() []string {
	var files []string

	err := fs.WalkDir(scaffoldFS, scaffoldDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p[len(scaffoldDir)+1:])
		}

		return nil
	})
	if err != nil {
		panic(fmt.Errorf("walk embedded scaffold: %w", err))
	}

	return files
}

// Scaffold writes the sample library files. Existing files are never
// overwritten.
func (l *Library) Scaffold() error {
	for _, rel := range ScaffoldFiles() {
		data, err := scaffoldFS.ReadFile(path.Join(scaffoldDir, rel))
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", rel, err)
		}

		err = api.WriteIfNotExists(l.Path(rel), data)
		if err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}

		slog.Debug("scaffold library file", slog.String("path", rel))
	}

	return nil
}
