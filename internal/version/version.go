// Package version provides three-way version string comparison.
package version

import "fmt"

// Comparison flags. They alter how keyword components of a version are
// ranked by the Libversion comparator; other comparators ignore them.
const (
	// PIsPatch makes a lone "p" keyword mean "patch" instead of "pre"
	PIsPatch uint = 1 << 0
	// AnyIsPatch makes any unknown keyword a post-release component
	AnyIsPatch uint = 1 << 1
)

// Comparator compares two version strings.
type Comparator interface {
	// Compare returns -1, 0, or 1 if v1 is smaller, equal, or larger than v2.
	// flags1 and flags2 apply to v1 and v2 respectively.
	// Implementations must be total and antisymmetric.
	Compare(v1, v2 string, flags1, flags2 uint) int
}

// ComparatorFunc adapts a function to the Comparator interface
type ComparatorFunc func(v1, v2 string, flags1, flags2 uint) int

// Compare calls f
func (f ComparatorFunc) Compare(v1, v2 string, flags1, flags2 uint) int {
	return f(v1, v2, flags1, flags2)
}

// Default is the comparator used when no scheme is configured
var Default Comparator = Libversion{}

// Scheme names accepted by ForScheme
const (
	SchemeLibversion = "libversion"
	SchemeRPM        = "rpm"
	SchemeDeb        = "deb"
)

// ForScheme returns the comparator for a version scheme name. The empty name
// selects the default.
func ForScheme(name string) (Comparator, error) {
	switch name {
	case "", SchemeLibversion:
		return Default, nil
	case SchemeRPM:
		return RPM{}, nil
	case SchemeDeb:
		return Deb{}, nil
	default:
		return nil, fmt.Errorf("unknown version scheme %q", name)
	}
}

// Compare compares two versions with the default comparator
func Compare(v1, v2 string, flags1, flags2 uint) int {
	return Default.Compare(v1, v2, flags1, flags2)
}
