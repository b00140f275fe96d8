package profile

// File is a single entry of a resolved file list.
type File struct {
	// Path is the library-relative file path, exactly as written in the
	// dependency list.
	Path string
	// ReferencedBy is the profile whose dependency list contained the first
	// occurrence of Path.
	ReferencedBy string
}

// Files is an ordered list of distinct files, in first-discovered
// depth-first order.
type Files []File

// Paths returns the file paths in order.
func (fs Files) Paths() []string {
	paths := make([]string, 0, len(fs))
	for _, f := range fs {
		paths = append(paths, f.Path)
	}

	return paths
}

// Resolve expands the profile named start into an ordered, deduplicated list
// of files.
//
// Dependencies are expanded depth-first in declaration order. A file path is
// kept only at its first occurrence; later references to the same path are
// skipped. File existence is not checked.
//
// Resolve returns an [*UnknownProfileError] if start or any transitively
// referenced profile is undefined, and a [*CycleError] if a profile depends on
// itself. No partial result is returned on error.
func Resolve(cfg *Config, start string) (Files, error) {
	r := newResolution(cfg)

	err := r.expand(start, TopLevel)
	if err != nil {
		return nil, err
	}

	return r.out, nil
}

// resolution holds the state of a single [Resolve] call. It is never shared
// between calls.
type resolution struct {
	cfg *Config
	// onStack contains the profiles currently being expanded, and stack
	// holds the same names in expansion order so a cycle can be reported.
	onStack map[string]bool
	seen    map[string]bool
	stack   []string
	out     Files
}

func newResolution(cfg *Config) *resolution {
	return &resolution{
		cfg:     cfg,
		onStack: map[string]bool{},
		seen:    map[string]bool{},
	}
}

func (r *resolution) expand(name, referencedBy string) error {
	if r.onStack[name] {
		return &CycleError{Chain: r.chainFrom(name)}
	}

	p, ok := r.cfg.Get(name)
	if !ok {
		return &UnknownProfileError{Name: name, ReferencedBy: referencedBy}
	}

	r.onStack[name] = true
	r.stack = append(r.stack, name)

	for _, dep := range p.Dependencies() {
		switch dep.Kind {
		case KindFile:
			if r.seen[dep.Value] {
				continue
			}

			r.seen[dep.Value] = true
			r.out = append(r.out, File{Path: dep.Value, ReferencedBy: name})

		case KindProfile:
			err := r.expand(dep.Value, name)
			if err != nil {
				return err
			}
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	delete(r.onStack, name)

	return nil
}

// chainFrom returns the part of the expansion stack starting at the first
// appearance of name.
func (r *resolution) chainFrom(name string) []string {
	for i, n := range r.stack {
		if n == name {
			chain := make([]string, len(r.stack)-i)
			copy(chain, r.stack[i:])

			return chain
		}
	}

	return []string{name}
}
