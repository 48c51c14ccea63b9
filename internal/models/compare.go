package models

import "github.com/ralt/repology/internal/version"

// VersionCompare compares versions of two records with the default
// comparator. It returns -1, 0 or 1 if p is older, equal or newer than other.
func (p *Package) VersionCompare(other *Package) int {
	return p.CompareWith(version.Default, other)
}

// CompareWith compares versions of two records. Metaorder derived from flags
// is evaluated first; records in different tiers are never compared by
// version string.
func (p *Package) CompareWith(cmp version.Comparator, other *Package) int {
	selfMetaorder := Metaorder(p.Flags)
	otherMetaorder := Metaorder(other.Flags)

	if selfMetaorder < otherMetaorder {
		return -1
	}
	if selfMetaorder > otherMetaorder {
		return 1
	}

	return cmp.Compare(p.Version, other.Version, p.Flags.versionFlags(), other.Flags.versionFlags())
}

// versionFlags maps comparison hint flags to comparator flags
func (f PackageFlags) versionFlags() uint {
	var flags uint
	if f&FlagPIsPatch != 0 {
		flags |= version.PIsPatch
	}
	if f&FlagAnyIsPatch != 0 {
		flags |= version.AnyIsPatch
	}
	return flags
}
