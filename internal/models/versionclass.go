package models

import (
	"encoding/json"
	"fmt"
)

// VersionClass is the classification assigned to a record after comparing it
// against the other records of its effname. The zero value means unassigned.
type VersionClass int

const (
	VersionClassNewest VersionClass = iota + 1
	VersionClassOutdated
	VersionClassIgnored
	VersionClassUnique
	VersionClassDevel
	VersionClassLegacy
	VersionClassIncorrect
	VersionClassUntrusted
	VersionClassNoScheme
	VersionClassRolling
)

var versionClassNames = map[VersionClass]string{
	VersionClassNewest:    "newest",
	VersionClassOutdated:  "outdated",
	VersionClassIgnored:   "ignored",
	VersionClassUnique:    "unique",
	VersionClassDevel:     "devel",
	VersionClassLegacy:    "legacy",
	VersionClassIncorrect: "incorrect",
	VersionClassUntrusted: "untrusted",
	VersionClassNoScheme:  "noscheme",
	VersionClassRolling:   "rolling",
}

// String returns the canonical lowercase name, or "" when unassigned
func (c VersionClass) String() string {
	return versionClassNames[c]
}

// Valid reports whether c is one of the defined classes
func (c VersionClass) Valid() bool {
	_, ok := versionClassNames[c]
	return ok
}

// IsIgnored reports whether the class is equivalent to ignored
func (c VersionClass) IsIgnored() bool {
	switch c {
	case VersionClassIgnored, VersionClassIncorrect, VersionClassUntrusted, VersionClassNoScheme, VersionClassRolling:
		return true
	}
	return false
}

// ParseVersionClass looks up a class by its canonical name
func ParseVersionClass(s string) (VersionClass, error) {
	for c, name := range versionClassNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown version class %q", s)
}

// VersionClassFromInt looks up a class by its numeric value
func VersionClassFromInt(v int) (VersionClass, error) {
	c := VersionClass(v)
	if !c.Valid() {
		return 0, fmt.Errorf("unknown version class %d", v)
	}
	return c, nil
}

// MarshalJSON encodes the class as its name, or null when unassigned
func (c VersionClass) MarshalJSON() ([]byte, error) {
	if c == 0 {
		return []byte("null"), nil
	}
	if !c.Valid() {
		return nil, fmt.Errorf("unknown version class %d", int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a class name, a class number or null
func (c *VersionClass) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = 0
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseVersionClass(name)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var num int
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid version class %s", data)
	}
	parsed, err := VersionClassFromInt(num)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
