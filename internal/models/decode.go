package models

import (
	"fmt"
)

// CheckFormat reports whether an undecoded record carries every attribute.
// It never fails; a false result means the record was written by an older
// format and has to be regenerated.
func CheckFormat(raw map[string]any) bool {
	for _, attr := range Attributes {
		if _, ok := raw[attr]; !ok {
			return false
		}
	}
	return true
}

// DecodePackage validates an undecoded record and converts it to a Package.
// Errors are *SanityError values; see CheckRawSanity.
func DecodePackage(raw map[string]any, transformed bool) (*Package, error) {
	if err := CheckRawSanity(raw, transformed); err != nil {
		return nil, err
	}

	pkg := NewPackage()
	pkg.Repo = stringValue(raw["repo"])
	pkg.Family = stringValue(raw["family"])
	pkg.Subrepo = stringValue(raw["subrepo"])
	pkg.Name = stringValue(raw["name"])
	pkg.EffName = stringValue(raw["effname"])
	pkg.Version = stringValue(raw["version"])
	pkg.OrigVersion = stringValue(raw["origversion"])
	pkg.Maintainers = stringList(raw["maintainers"])
	pkg.Category = stringValue(raw["category"])
	pkg.Comment = stringValue(raw["comment"])
	pkg.Homepage = stringValue(raw["homepage"])
	pkg.Licenses = stringList(raw["licenses"])
	pkg.Downloads = stringList(raw["downloads"])
	pkg.Flavors = stringList(raw["flavors"])
	pkg.ExtraFields = stringDict(raw["extrafields"])
	pkg.Shadow, _ = raw["shadow"].(bool)
	pkg.VerFixed, _ = raw["verfixed"].(bool)

	flags, _ := asInt(raw["flags"])
	pkg.Flags = PackageFlags(flags)

	class, err := decodeVersionClass(raw["versionclass"])
	if err != nil {
		return nil, structural(pkg.Name, "versionclass", err.Error())
	}
	pkg.VersionClass = class

	return pkg, nil
}

func decodeVersionClass(value any) (VersionClass, error) {
	if value == nil {
		return 0, nil
	}
	if s, ok := value.(string); ok {
		if s == "" {
			return 0, nil
		}
		class, err := ParseVersionClass(s)
		if err != nil {
			return 0, fmt.Errorf("is not a version class")
		}
		return class, nil
	}
	if n, ok := asInt(value); ok {
		class, err := VersionClassFromInt(int(n))
		if err != nil {
			return 0, fmt.Errorf("is not a version class")
		}
		return class, nil
	}
	return 0, fmt.Errorf("is not a version class")
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func stringList(value any) []string {
	out := []string{}
	switch list := value.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, element := range list {
			out = append(out, element.(string))
		}
	}
	return out
}

func stringDict(value any) map[string]string {
	out := map[string]string{}
	switch dict := value.(type) {
	case map[string]string:
		for k, v := range dict {
			out[k] = v
		}
	case map[string]any:
		for k, v := range dict {
			out[k] = v.(string)
		}
	}
	return out
}
