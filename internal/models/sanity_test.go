package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecks(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		value string
		want  string
	}{
		{"newline", NoNewlines, "a\nb", "contains newlines"},
		{"no newline", NoNewlines, "ab", ""},
		{"slash", NoSlashes, "a/b", "contains slashes"},
		{"leading space", Stripped, " a", "is not stripped"},
		{"trailing tab", Stripped, "a\t", "is not stripped"},
		{"stripped", Stripped, "a b", ""},
		{"unit separator", Stripped, "\x1fzsh", "is not stripped"},
		{"trailing file separator", Stripped, "zsh\x1c", "is not stripped"},
		{"inner separator", Stripped, "z\x1esh", ""},
		{"symbols", Alphanumeric, "My-Repo!", "contains not allowed symbols"},
		{"empty not alphanumeric", Alphanumeric, "", "contains not allowed symbols"},
		{"alphanumeric", Alphanumeric, "freebsd_ports-1", ""},
		{"uppercase", Lowercase, "FreeBSD", "is not lowercase"},
		{"lowercase", Lowercase, "freebsd", ""},
		{"space", NoWhitespace, "a b", "contains whitespace"},
		{"carriage return", NoWhitespace, "a\rb", "contains whitespace"},
		{"empty", NonEmpty, "", "is empty"},
		{"non empty", NonEmpty, "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func requireSanityError(t *testing.T, err error, severity Severity, field string) *SanityError {
	t.Helper()
	require.Error(t, err)
	var serr *SanityError
	require.True(t, errors.As(err, &serr), "expected *SanityError, got %T", err)
	assert.Equal(t, severity, serr.Severity)
	assert.Equal(t, field, serr.Field)
	return serr
}

func TestCheckSanityValid(t *testing.T) {
	assert.NoError(t, samplePackage().CheckSanity(true))
	assert.NoError(t, samplePackage().CheckSanity(false))
}

func TestCheckSanityContentProblems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Package)
		field   string
		message string
	}{
		{"repo symbols", func(p *Package) { p.Repo = "My-Repo!" }, "repo", "contains not allowed symbols"},
		{"repo case", func(p *Package) { p.Repo = "FreeBSD" }, "repo", "is not lowercase"},
		{"family newline", func(p *Package) { p.Family = "free\nbsd" }, "family", "contains newlines"},
		{"subrepo stripped", func(p *Package) { p.Subrepo = "main " }, "subrepo", "is not stripped"},
		{"name empty", func(p *Package) { p.Name = "" }, "name", "is empty"},
		{"effname slash", func(p *Package) { p.EffName = "a/b" }, "effname", "contains slashes"},
		{"version stripped", func(p *Package) { p.Version = " 1.0" }, "version", "is not stripped"},
		{"version empty", func(p *Package) { p.Version = "" }, "version", "is empty"},
		{"origversion newline", func(p *Package) { p.OrigVersion = "1\n" }, "origversion", "contains newlines"},
		{"maintainer whitespace", func(p *Package) { p.Maintainers = []string{"a@x", "john doe"} }, "maintainers", "contains whitespace"},
		{"maintainer slash", func(p *Package) { p.Maintainers = []string{"a/b"} }, "maintainers", "contains slashes"},
		{"maintainer empty", func(p *Package) { p.Maintainers = []string{""} }, "maintainers", "is empty"},
		{"category stripped", func(p *Package) { p.Category = "shells " }, "category", "is not stripped"},
		{"comment newline", func(p *Package) { p.Comment = "a\nb" }, "comment", "contains newlines"},
		{"homepage whitespace", func(p *Package) { p.Homepage = "http://a b/" }, "homepage", "contains whitespace"},
		{"license empty", func(p *Package) { p.Licenses = []string{"MIT", ""} }, "licenses", "is empty"},
		{"download whitespace", func(p *Package) { p.Downloads = []string{"http://x/a b"} }, "downloads", "contains whitespace"},
		{"flavor stripped", func(p *Package) { p.Flavors = []string{" py39"} }, "flavors", "is not stripped"},
		{"extrafield whitespace", func(p *Package) { p.ExtraFields = map[string]string{"k": "a b"} }, "extrafields", "contains whitespace"},
		{"extrafield empty", func(p *Package) { p.ExtraFields = map[string]string{"k": ""} }, "extrafields", "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := samplePackage()
			tt.mutate(pkg)

			err := pkg.CheckSanity(true)
			serr := requireSanityError(t, err, ContentProblem, tt.field)
			assert.Equal(t, tt.message, serr.Message)
			assert.True(t, IsContentProblem(err))
			assert.False(t, IsStructural(err))
		})
	}
}

func TestCheckSanityEffnameRequirement(t *testing.T) {
	pkg := samplePackage()
	pkg.EffName = ""

	assert.NoError(t, pkg.CheckSanity(false))

	serr := requireSanityError(t, pkg.CheckSanity(true), ContentProblem, "effname")
	assert.Equal(t, "is empty", serr.Message)
}

func TestCheckSanityEmptyOptionals(t *testing.T) {
	pkg := samplePackage()
	pkg.Subrepo = ""
	pkg.OrigVersion = ""
	pkg.Category = ""
	pkg.Comment = ""
	pkg.Homepage = ""

	assert.NoError(t, pkg.CheckSanity(true))

	pkg.EffName = ""
	err := pkg.CheckSanity(true)
	assert.True(t, IsContentProblem(err))
	assert.False(t, IsStructural(err))
}

func TestCheckSanityFirstFailureWins(t *testing.T) {
	pkg := samplePackage()
	pkg.Version = " 1.0"
	pkg.Repo = "BAD!"
	pkg.Comment = " x"

	serr := requireSanityError(t, pkg.CheckSanity(true), ContentProblem, "repo")
	assert.Equal(t, "contains not allowed symbols", serr.Message)
}

func TestCheckSanityExtrafieldsOrder(t *testing.T) {
	pkg := samplePackage()
	pkg.ExtraFields = map[string]string{"b": "", "a": "x y"}

	serr := requireSanityError(t, pkg.CheckSanity(true), ContentProblem, "extrafields")
	assert.Equal(t, "contains whitespace", serr.Message)
}

func TestSanityErrorMessage(t *testing.T) {
	pkg := samplePackage()
	pkg.Version = " 1.0"

	err := pkg.CheckSanity(true)
	require.Error(t, err)
	assert.Equal(t, `zsh: version is not stripped: " 1.0"`, err.Error())

	structural := &SanityError{Severity: StructuralFailure, Package: "zsh", Field: "flags", Message: "is not an int"}
	assert.Equal(t, "zsh: flags is not an int", structural.Error())
}

func rawSample(t *testing.T) map[string]any {
	t.Helper()
	data, err := json.Marshal(samplePackage())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	return raw
}

func TestCheckRawSanityStructuralFailures(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		message string
	}{
		{"flags string", "flags", "1", "is not an int"},
		{"flags fractional", "flags", 1.5, "is not an int"},
		{"shadow string", "shadow", "true", "is not a boolean"},
		{"verfixed int", "verfixed", 1.0, "is not a boolean"},
		{"name number", "name", 42.0, "is not a string"},
		{"repo missing", "repo", nil, "is not a string"},
		{"maintainers string", "maintainers", "a@x", "is not a list"},
		{"license element number", "licenses", []any{"MIT", 1.0}, "is not a string"},
		{"extrafields list", "extrafields", []any{"x"}, "is not a dict"},
		{"extrafield value number", "extrafields", map[string]any{"k": 1.0}, "is not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSample(t)
			raw[tt.field] = tt.value

			err := CheckRawSanity(raw, true)
			serr := requireSanityError(t, err, StructuralFailure, tt.field)
			assert.Equal(t, tt.message, serr.Message)
			assert.True(t, IsStructural(err))
		})
	}
}

func TestCheckRawSanityOptionalFields(t *testing.T) {
	raw := rawSample(t)
	raw["subrepo"] = nil
	raw["comment"] = nil
	delete(raw, "origversion")
	assert.NoError(t, CheckRawSanity(raw, true))

	// present but empty is a problem for fields requiring content
	raw["category"] = ""
	serr := requireSanityError(t, CheckRawSanity(raw, true), ContentProblem, "category")
	assert.Equal(t, "is empty", serr.Message)
}

func TestCheckRawSanityContentProblem(t *testing.T) {
	raw := rawSample(t)
	raw["repo"] = "My-Repo!"

	serr := requireSanityError(t, CheckRawSanity(raw, true), ContentProblem, "repo")
	assert.Equal(t, "zsh", serr.Package)
}
