package models

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// PackageFlags is a set of bit flags attached to a package record.
// Bit values are part of the dump format and must not be renumbered.
type PackageFlags uint64

const (
	// FlagRemove marks a record to be dropped during processing
	FlagRemove PackageFlags = 1 << 0
	// FlagDevel marks a development version
	FlagDevel PackageFlags = 1 << 1

	// ignored variants
	FlagIgnore    PackageFlags = 1 << 2
	FlagIncorrect PackageFlags = 1 << 3
	FlagUntrusted PackageFlags = 1 << 4
	FlagNoScheme  PackageFlags = 1 << 5

	// FlagRolling is processed differently than the other ignored variants
	FlagRolling PackageFlags = 1 << 7

	// forced classes
	FlagOutdated PackageFlags = 1 << 8
	FlagLegacy   PackageFlags = 1 << 9

	// version comparison hints
	FlagPIsPatch   PackageFlags = 1 << 10
	FlagAnyIsPatch PackageFlags = 1 << 11

	FlagAnyIgnored = FlagIgnore | FlagIncorrect | FlagUntrusted | FlagNoScheme
)

var flagNames = []struct {
	flag PackageFlags
	name string
}{
	{FlagRemove, "remove"},
	{FlagDevel, "devel"},
	{FlagIgnore, "ignore"},
	{FlagIncorrect, "incorrect"},
	{FlagUntrusted, "untrusted"},
	{FlagNoScheme, "noscheme"},
	{FlagRolling, "rolling"},
	{FlagOutdated, "outdated"},
	{FlagLegacy, "legacy"},
	{FlagPIsPatch, "p_is_patch"},
	{FlagAnyIsPatch, "any_is_patch"},
}

// Metaorder returns a higher order version sorting key based on flags.
//
// Rolling versions always precede normal versions, and normal versions always
// precede outdated versions. Within a metaorder versions are compared normally.
// FlagLegacy deliberately does not participate.
func Metaorder(flags PackageFlags) int {
	if flags&FlagRolling != 0 {
		return 1
	}
	if flags&FlagOutdated != 0 {
		return -1
	}
	return 0
}

// Has reports whether any bit of flag is set
func (f PackageFlags) Has(flag PackageFlags) bool {
	return f&flag != 0
}

// IsIgnored reports whether any of the ignored variants is set
func (f PackageFlags) IsIgnored() bool {
	return f&FlagAnyIgnored != 0
}

// String returns comma separated flag names in bit order
func (f PackageFlags) String() string {
	var names []string
	rest := f
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint64(rest)))
	}
	return strings.Join(names, ",")
}

var _ pflag.Value = (*PackageFlags)(nil)

// Set implements pflag.Value, adding the comma separated flags in s
func (f *PackageFlags) Set(s string) error {
	parsed, err := ParsePackageFlags(s)
	if err != nil {
		return err
	}
	*f |= parsed
	return nil
}

// Type implements pflag.Value
func (f *PackageFlags) Type() string {
	return "flags"
}

// ParsePackageFlags parses a comma separated list of flag names
func ParsePackageFlags(s string) (PackageFlags, error) {
	var flags PackageFlags
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		flag, ok := flagByName(name)
		if !ok {
			return 0, fmt.Errorf("unknown package flag %q", name)
		}
		flags |= flag
	}
	return flags, nil
}

func flagByName(name string) (PackageFlags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}
