package models

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Package represents one observed instance of a software package in a
// repository. Empty optional strings mean the attribute is absent.
type Package struct {
	// Origin
	Repo    string `json:"repo"`
	Family  string `json:"family"`
	Subrepo string `json:"subrepo"`

	// Naming
	Name    string `json:"name"`
	EffName string `json:"effname"`

	// Versioning
	Version      string       `json:"version"`
	OrigVersion  string       `json:"origversion"`
	VersionClass VersionClass `json:"versionclass"`

	// Descriptive metadata
	Maintainers []string `json:"maintainers"`
	Category    string   `json:"category"`
	Comment     string   `json:"comment"`
	Homepage    string   `json:"homepage"`
	Licenses    []string `json:"licenses"`
	Downloads   []string `json:"downloads"`

	// Control
	Flags    PackageFlags `json:"flags"`
	Shadow   bool         `json:"shadow"`
	VerFixed bool         `json:"verfixed"`

	Flavors     []string          `json:"flavors"`
	ExtraFields map[string]string `json:"extrafields"`
}

// Attributes lists the record attributes in declared order. This is also the
// set of keys a dump record must carry.
var Attributes = []string{
	"repo", "family", "subrepo",
	"name", "effname",
	"version", "origversion", "versionclass",
	"maintainers", "category", "comment", "homepage", "licenses", "downloads",
	"flags", "shadow", "verfixed",
	"flavors",
	"extrafields",
}

// NewPackage returns a record with every collection attribute initialized
func NewPackage() *Package {
	return &Package{
		Maintainers: []string{},
		Licenses:    []string{},
		Downloads:   []string{},
		Flavors:     []string{},
		ExtraFields: map[string]string{},
	}
}

// CheckFormat reports whether every attribute is initialized. Records built
// from a bare literal rather than NewPackage or a decoder fail this check.
func (p *Package) CheckFormat() bool {
	return p.Maintainers != nil &&
		p.Licenses != nil &&
		p.Downloads != nil &&
		p.Flavors != nil &&
		p.ExtraFields != nil
}

// SetFlag sets or clears flag
func (p *Package) SetFlag(flag PackageFlags, isset bool) {
	if isset {
		p.Flags |= flag
	} else {
		p.Flags &^= flag
	}
}

// HasFlag reports whether any bit of flag is set
func (p *Package) HasFlag(flag PackageFlags) bool {
	return p.Flags.Has(flag)
}

// Equal reports full structural equality over every attribute
func (p *Package) Equal(other *Package) bool {
	if p == nil || other == nil {
		return p == other
	}
	return cmp.Equal(packageFields(*p), packageFields(*other), cmpopts.EquateEmpty())
}

// packageFields has the layout of Package without its methods, so cmp does
// not pick up Package.Equal and recurse.
type packageFields Package

// Clone returns a deep copy of the record
func (p *Package) Clone() *Package {
	c := *p
	c.Maintainers = cloneStrings(p.Maintainers)
	c.Licenses = cloneStrings(p.Licenses)
	c.Downloads = cloneStrings(p.Downloads)
	c.Flavors = cloneStrings(p.Flavors)
	if p.ExtraFields != nil {
		c.ExtraFields = make(map[string]string, len(p.ExtraFields))
		for k, v := range p.ExtraFields {
			c.ExtraFields[k] = v
		}
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

// MarshalJSON writes every attribute. Absent optional strings become null
// and nil collections become empty ones, so the output passes CheckFormat and
// CheckRawSanity.
func (p Package) MarshalJSON() ([]byte, error) {
	type plain Package

	c := p.Clone()
	if c.Maintainers == nil {
		c.Maintainers = []string{}
	}
	if c.Licenses == nil {
		c.Licenses = []string{}
	}
	if c.Downloads == nil {
		c.Downloads = []string{}
	}
	if c.Flavors == nil {
		c.Flavors = []string{}
	}
	if c.ExtraFields == nil {
		c.ExtraFields = map[string]string{}
	}

	return json.Marshal(struct {
		plain
		Subrepo     *string `json:"subrepo"`
		EffName     *string `json:"effname"`
		OrigVersion *string `json:"origversion"`
		Category    *string `json:"category"`
		Comment     *string `json:"comment"`
		Homepage    *string `json:"homepage"`
	}{
		plain:       plain(*c),
		Subrepo:     optionalString(c.Subrepo),
		EffName:     optionalString(c.EffName),
		OrigVersion: optionalString(c.OrigVersion),
		Category:    optionalString(c.Category),
		Comment:     optionalString(c.Comment),
		Homepage:    optionalString(c.Homepage),
	})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
