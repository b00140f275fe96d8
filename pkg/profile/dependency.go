package profile

import "strings"

// FileSuffix marks a dependency reference as a library file.
const FileSuffix = ".md"

// DependencyKind identifies the variant of a [Dependency].
type DependencyKind int

const (
	// KindProfile references another profile by name.
	KindProfile DependencyKind = iota
	// KindFile references a file relative to the library root.
	KindFile
)

func (k DependencyKind) String() string {
	switch k {
	case KindProfile:
		return "profile"
	case KindFile:
		return "file"
	}

	return "unknown"
}

// Dependency is a classified dependency reference.
type Dependency struct {
	// Value is the file path for [KindFile], or the profile name for
	// [KindProfile].
	Value string
	Kind  DependencyKind
}

// Classify maps a raw dependency reference to a [Dependency].
//
// A reference is a file if and only if it ends with [FileSuffix], compared
// case-insensitively. Every other string is a profile name. The file suffix
// always wins, so a profile named "notes.md" can never be referenced.
func Classify(raw string) Dependency {
	if hasFileSuffix(raw) {
		return Dependency{Kind: KindFile, Value: raw}
	}

	return Dependency{Kind: KindProfile, Value: raw}
}

// IsFile reports whether the dependency references a library file.
func (d Dependency) IsFile() bool {
	return d.Kind == KindFile
}

func (d Dependency) String() string {
	return d.Kind.String() + ":" + d.Value
}

func hasFileSuffix(s string) bool {
	if len(s) < len(FileSuffix) {
		return false
	}

	return strings.EqualFold(s[len(s)-len(FileSuffix):], FileSuffix)
}
