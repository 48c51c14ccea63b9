package version

import rpmutils "github.com/sassoftware/go-rpmutils"

var _ Comparator = RPM{}

// RPM compares versions with rpmvercmp semantics. Flags are ignored.
type RPM struct{}

// Compare implements Comparator
func (RPM) Compare(v1, v2 string, _, _ uint) int {
	return sign(rpmutils.Vercmp(v1, v2))
}
