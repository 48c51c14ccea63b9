package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Check inspects a single string value and returns a short description of
// the problem, or an empty string if the value is fine.
type Check func(value string) string

var alphanumericRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NoNewlines rejects values containing a newline
func NoNewlines(value string) string {
	if strings.Contains(value, "\n") {
		return "contains newlines"
	}
	return ""
}

// NoSlashes rejects values containing a slash
func NoSlashes(value string) string {
	if strings.Contains(value, "/") {
		return "contains slashes"
	}
	return ""
}

// stripSpace matches what str.strip() removes: Unicode whitespace plus
// the ASCII file, group, record and unit separators.
func stripSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Stripped rejects values with leading or trailing whitespace
func Stripped(value string) string {
	if value != strings.TrimFunc(value, stripSpace) {
		return "is not stripped"
	}
	return ""
}

// Alphanumeric accepts only letters, digits, underscores and hyphens
func Alphanumeric(value string) string {
	if !alphanumericRe.MatchString(value) {
		return "contains not allowed symbols"
	}
	return ""
}

// Lowercase rejects values containing uppercase letters
func Lowercase(value string) string {
	if value != strings.ToLower(value) {
		return "is not lowercase"
	}
	return ""
}

// NoWhitespace rejects values containing spaces, tabs or line breaks
func NoWhitespace(value string) string {
	if strings.ContainsAny(value, " \t\n\r") {
		return "contains whitespace"
	}
	return ""
}

// NonEmpty rejects the empty string
func NonEmpty(value string) string {
	if value == "" {
		return "is empty"
	}
	return ""
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindList
	kindDict
	kindInt
	kindBool
)

type fieldRule struct {
	name string
	kind fieldKind
	// optional fields are only checked when present
	optional bool
	checks   []Check
}

// sanityRules returns the per-field checks in declared attribute order.
// versionclass has no content rules; its shape is validated by the decoder.
func sanityRules(transformed bool) []fieldRule {
	return []fieldRule{
		{name: "repo", kind: kindString, checks: []Check{NoNewlines, Stripped, Alphanumeric, Lowercase}},
		{name: "family", kind: kindString, checks: []Check{NoNewlines, Stripped, Alphanumeric, Lowercase}},
		{name: "subrepo", kind: kindString, optional: true, checks: []Check{NoNewlines, Stripped}},

		{name: "name", kind: kindString, checks: []Check{NoNewlines, Stripped, NonEmpty}},
		{name: "effname", kind: kindString, optional: !transformed, checks: []Check{NoNewlines, Stripped, NonEmpty, NoSlashes}},

		{name: "version", kind: kindString, checks: []Check{NoNewlines, Stripped, NonEmpty}},
		{name: "origversion", kind: kindString, optional: true, checks: []Check{NoNewlines, Stripped}},

		{name: "maintainers", kind: kindList, checks: []Check{NoNewlines, Stripped, NoWhitespace, NoSlashes, NonEmpty}},
		{name: "category", kind: kindString, optional: true, checks: []Check{NoNewlines, Stripped, NonEmpty}},
		{name: "comment", kind: kindString, optional: true, checks: []Check{NoNewlines, Stripped, NonEmpty}},
		{name: "homepage", kind: kindString, optional: true, checks: []Check{NoWhitespace, NonEmpty}},
		{name: "licenses", kind: kindList, checks: []Check{NoNewlines, Stripped, NonEmpty}},
		{name: "downloads", kind: kindList, checks: []Check{NoWhitespace, NoNewlines, NonEmpty}},

		{name: "flags", kind: kindInt},
		{name: "shadow", kind: kindBool},
		{name: "verfixed", kind: kindBool},

		{name: "flavors", kind: kindList, checks: []Check{NoNewlines, Stripped, NonEmpty}},

		{name: "extrafields", kind: kindDict, checks: []Check{NoWhitespace, NonEmpty}},
	}
}

// CheckSanity validates the record. With transformed set, effname is
// required; otherwise it is only checked when present.
//
// The first failure in declared attribute order is returned as a
// *SanityError. Every typed field has the right shape, so only
// ContentProblem can occur; empty optional strings count as absent.
func (p *Package) CheckSanity(transformed bool) error {
	return checkFields(p.Name, p.fieldValues(), transformed, true)
}

// CheckRawSanity validates an undecoded record, e.g. a JSON object from a
// dump. Values of the wrong shape yield a StructuralFailure.
func CheckRawSanity(raw map[string]any, transformed bool) error {
	name := "<unnamed>"
	if v, ok := raw["name"]; ok && v != nil {
		name = fmt.Sprint(v)
	}
	return checkFields(name, raw, transformed, false)
}

func (p *Package) fieldValues() map[string]any {
	return map[string]any{
		"repo":        p.Repo,
		"family":      p.Family,
		"subrepo":     p.Subrepo,
		"name":        p.Name,
		"effname":     p.EffName,
		"version":     p.Version,
		"origversion": p.OrigVersion,
		"maintainers": p.Maintainers,
		"category":    p.Category,
		"comment":     p.Comment,
		"homepage":    p.Homepage,
		"licenses":    p.Licenses,
		"downloads":   p.Downloads,
		"flags":       p.Flags,
		"shadow":      p.Shadow,
		"verfixed":    p.VerFixed,
		"flavors":     p.Flavors,
		"extrafields": p.ExtraFields,
	}
}

// checkFields runs the rules over values. A nil value counts as absent;
// with emptyIsAbsent an empty string does too, which is how typed records
// express a missing optional attribute.
func checkFields(pkgName string, values map[string]any, transformed, emptyIsAbsent bool) error {
	for _, rule := range sanityRules(transformed) {
		value, present := values[rule.name]
		if present && value == nil {
			present = false
		}
		if s, ok := value.(string); ok && s == "" && emptyIsAbsent && rule.optional {
			present = false
		}
		if !present && rule.optional {
			continue
		}

		var err error
		switch rule.kind {
		case kindString:
			err = checkString(pkgName, rule, value)
		case kindList:
			err = checkList(pkgName, rule, value)
		case kindDict:
			err = checkDict(pkgName, rule, value)
		case kindInt:
			if _, ok := asInt(value); !ok {
				err = structural(pkgName, rule.name, "is not an int")
			}
		case kindBool:
			if _, ok := value.(bool); !ok {
				err = structural(pkgName, rule.name, "is not a boolean")
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkString(pkgName string, rule fieldRule, value any) error {
	s, ok := value.(string)
	if !ok {
		return structural(pkgName, rule.name, "is not a string")
	}
	for _, check := range rule.checks {
		if msg := check(s); msg != "" {
			return &SanityError{
				Severity: ContentProblem,
				Package:  pkgName,
				Field:    rule.name,
				Message:  msg,
				Value:    s,
			}
		}
	}
	return nil
}

func checkList(pkgName string, rule fieldRule, value any) error {
	switch list := value.(type) {
	case []string:
		for _, element := range list {
			if err := checkString(pkgName, rule, element); err != nil {
				return err
			}
		}
	case []any:
		for _, element := range list {
			if err := checkString(pkgName, rule, element); err != nil {
				return err
			}
		}
	default:
		return structural(pkgName, rule.name, "is not a list")
	}
	return nil
}

func checkDict(pkgName string, rule fieldRule, value any) error {
	switch dict := value.(type) {
	case map[string]string:
		for _, key := range sortedKeys(dict) {
			if err := checkString(pkgName, rule, dict[key]); err != nil {
				return err
			}
		}
	case map[string]any:
		for _, key := range sortedKeys(dict) {
			if err := checkString(pkgName, rule, dict[key]); err != nil {
				return err
			}
		}
	default:
		return structural(pkgName, rule.name, "is not a dict")
	}
	return nil
}

func structural(pkgName, field, msg string) *SanityError {
	return &SanityError{
		Severity: StructuralFailure,
		Package:  pkgName,
		Field:    field,
		Message:  msg,
	}
}

// asInt accepts integer values as produced by Go code or a JSON decoder
func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case PackageFlags:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
