package prompt

import (
	"bytes"
	"fmt"
	"io"
)

// Document is a single file's content, in rendering order.
type Document struct {
	// Path is the library-relative path the content was read from. It is
	// not part of the rendered output.
	Path    string
	Content []byte
}

// Options configures [Render]. All text is written as given; callers apply
// [Unescape] to user-supplied values beforehand.
type Options struct {
	PrePrompt  string
	SystemInfo string
	// Separator is written between adjacent documents. When empty, the
	// contents are concatenated directly.
	Separator  string
	PostPrompt string
}

// Render writes the framed prompt for docs to w.
func Render(w io.Writer, docs []Document, opts Options) error {
	var buf bytes.Buffer

	buf.WriteString(opts.PrePrompt)
	buf.WriteString("\n\n")
	buf.WriteString(opts.SystemInfo)
	buf.WriteString("\n\n")

	for i, doc := range docs {
		if i > 0 {
			buf.WriteString(opts.Separator)
		}

		buf.Write(doc.Content)
	}

	buf.WriteString("\n\n")
	buf.WriteString(opts.PostPrompt)

	_, err := buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}

	return nil
}

// RenderString returns the framed prompt for docs as a string.
func RenderString(docs []Document, opts Options) string {
	var buf bytes.Buffer

	// Writes to a bytes.Buffer never fail.
	_ = Render(&buf, docs, opts)

	return buf.String()
}
