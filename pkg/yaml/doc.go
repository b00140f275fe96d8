// Package yaml wraps [github.com/goccy/go-yaml] with the decoder and encoder
// settings used for prompter configuration, source-annotated errors, and
// JSON schema validation and generation.
package yaml
