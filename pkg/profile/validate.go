package profile

import "errors"

// Issue is a single problem found by [Validate].
type Issue struct {
	// Err is one of [*UnknownProfileError], [*CycleError] or
	// [*MissingFileError].
	Err error
	// Profile is the profile that was being validated when the issue was
	// found. It can differ from the referencing profile reported by Err.
	Profile string
}

func (i Issue) Error() string {
	return i.Err.Error()
}

func (i Issue) Unwrap() error {
	return i.Err
}

// ExistsFunc reports whether a library-relative file path exists.
type ExistsFunc func(path string) bool

// Validate checks every profile in cfg, in declaration order, and returns all
// issues found. A nil result means the configuration is valid.
//
// Each profile is resolved with [Resolve]; resolution errors are recorded and
// every resolved file is checked with exists. The direct dependencies of each
// profile are also checked, so a profile whose resolution stops early still
// reports its other unknown references and missing files. Issues with the
// same message are reported once, at the first point they are found.
func Validate(cfg *Config, exists ExistsFunc) []Issue {
	v := &validation{seen: map[string]bool{}}

	for _, name := range cfg.Names() {
		files, err := Resolve(cfg, name)
		if err != nil {
			v.add(name, err)
		}

		for _, f := range files {
			if !exists(f.Path) {
				v.add(name, &MissingFileError{Path: f.Path, ReferencedBy: f.ReferencedBy})
			}
		}

		p, _ := cfg.Get(name)
		for _, dep := range p.Dependencies() {
			switch dep.Kind {
			case KindFile:
				if !exists(dep.Value) {
					v.add(name, &MissingFileError{Path: dep.Value, ReferencedBy: name})
				}

			case KindProfile:
				if !cfg.Has(dep.Value) {
					v.add(name, &UnknownProfileError{Name: dep.Value, ReferencedBy: name})
				}
			}
		}
	}

	return v.issues
}

type validation struct {
	seen   map[string]bool
	issues []Issue
}

func (v *validation) add(profile string, err error) {
	msg := err.Error()
	if v.seen[msg] {
		return
	}

	v.seen[msg] = true
	v.issues = append(v.issues, Issue{Profile: profile, Err: err})
}

// Errors converts issues to a joined error, or nil if there are none.
func Errors(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}

	errs := make([]error, 0, len(issues))
	for _, issue := range issues {
		errs = append(errs, issue)
	}

	return errors.Join(errs...)
}
