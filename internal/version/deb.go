package version

import deb "github.com/knqyf263/go-deb-version"

var _ Comparator = Deb{}

// Deb compares versions with dpkg semantics. Flags are ignored. If either
// side is not a valid Debian version both are compared with Libversion.
type Deb struct{}

// Compare implements Comparator
func (Deb) Compare(v1, v2 string, flags1, flags2 uint) int {
	d1, err := deb.NewVersion(v1)
	if err != nil {
		return Libversion{}.Compare(v1, v2, flags1, flags2)
	}
	d2, err := deb.NewVersion(v2)
	if err != nil {
		return Libversion{}.Compare(v1, v2, flags1, flags2)
	}
	return sign(d1.Compare(d2))
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
