package profile

import (
	"errors"
	"fmt"
	"strings"
)

// TopLevel is the referencing profile reported for the profile that was
// requested directly.
const TopLevel = "top-level"

var (
	// ErrUnknownProfile is the sentinel error wrapped by [UnknownProfileError].
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrCycle is the sentinel error wrapped by [CycleError].
	ErrCycle = errors.New("cycle detected")

	// ErrMissingFile is the sentinel error wrapped by [MissingFileError].
	ErrMissingFile = errors.New("missing file")
)

// UnknownProfileError is returned when a profile name is not defined in the
// [Config].
type UnknownProfileError struct {
	// Name is the undefined profile name.
	Name string
	// ReferencedBy is the profile that referenced Name, or [TopLevel].
	ReferencedBy string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("Unknown profile: %s (referenced by [%s])", e.Name, e.ReferencedBy)
}

// Unwrap returns [ErrUnknownProfile] for errors.Is() compatibility.
func (e *UnknownProfileError) Unwrap() error { return ErrUnknownProfile }

// CycleError is returned when a profile depends on itself, directly or
// transitively.
type CycleError struct {
	// Chain contains the profiles that form the cycle, starting with the
	// profile that was re-entered. The closing edge back to Chain[0] is
	// implied. A self-reference yields a single-element Chain.
	Chain []string
}

func (e *CycleError) Error() string {
	if len(e.Chain) == 0 {
		return "Cycle detected"
	}

	return "Cycle detected: " + strings.Join(e.Chain, " -> ") + " -> " + e.Chain[0]
}

// Unwrap returns [ErrCycle] for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// MissingFileError is returned when a resolved file does not exist in the
// library. It is never returned by [Resolve]; it is produced by [Validate]
// and by callers that read file contents.
type MissingFileError struct {
	// Path is the library-relative file path.
	Path string
	// ReferencedBy is the profile whose dependencies listed Path.
	ReferencedBy string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("Missing file: %s (referenced by [%s])", e.Path, e.ReferencedBy)
}

// Unwrap returns [ErrMissingFile] for errors.Is() compatibility.
func (e *MissingFileError) Unwrap() error { return ErrMissingFile }
