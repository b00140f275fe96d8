// Package profile resolves named profiles into ordered lists of library files.
//
// A profile is a named, ordered list of dependencies. Each dependency is either
// a library-relative file path (anything ending in ".md", compared
// case-insensitively) or the name of another profile, which is expanded
// recursively.
//
// Resolution is a depth-first traversal that preserves declaration order,
// keeps only the first occurrence of every file path, and fails on unknown
// profile references and dependency cycles. [Validate] runs the same
// traversal over every profile in a [Config] and collects every problem it
// can find instead of stopping at the first one.
//
// Nothing in this package touches the filesystem; callers supply file
// existence checks and read file contents themselves.
package profile
