package dump

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralt/repology/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPackage(name, version string) *models.Package {
	pkg := models.NewPackage()
	pkg.Repo = "freebsd"
	pkg.Family = "freebsd"
	pkg.Name = name
	pkg.EffName = name
	pkg.Version = version
	pkg.Maintainers = []string{"ports@freebsd.org"}
	return pkg
}

func TestWriteAndLoad(t *testing.T) {
	for _, suffix := range []string{".jsonl", ".jsonl.gz", ".jsonl.xz", ".jsonl.zst"} {
		t.Run(suffix, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "freebsd"+suffix)
			want := []*models.Package{testPackage("zsh", "5.8"), testPackage("bash", "5.1")}
			want[1].SetFlag(models.FlagRolling, true)
			want[1].VersionClass = models.VersionClassRolling

			require.NoError(t, WritePackages(path, want))

			result, err := Load(path, LoadOptions{Transformed: true})
			require.NoError(t, err)
			require.Len(t, result.Packages, 2)
			assert.Empty(t, result.Problems)
			for i := range want {
				assert.True(t, want[i].Equal(result.Packages[i]), "record %d differs: %+v", i, result.Packages[i])
			}
		})
	}
}

func TestReaderArrayDump(t *testing.T) {
	text := `[
  {"repo":"arch","family":"arch","subrepo":null,"name":"zsh","effname":"zsh","version":"5.8","origversion":null,"versionclass":null,"maintainers":[],"category":null,"comment":null,"homepage":null,"licenses":[],"downloads":[],"flags":0,"shadow":false,"verfixed":false,"flavors":[],"extrafields":{}},
  {"repo":"arch","family":"arch","subrepo":null,"name":"bash","effname":"bash","version":"5.1","origversion":null,"versionclass":null,"maintainers":[],"category":null,"comment":null,"homepage":null,"licenses":[],"downloads":[],"flags":128,"shadow":false,"verfixed":false,"flavors":[],"extrafields":{}}
]`

	r := NewReader(strings.NewReader(text), "test")
	result, err := r.Load(LoadOptions{})
	require.NoError(t, err)
	require.Len(t, result.Packages, 2)
	assert.Equal(t, "bash", result.Packages[1].Name)
	assert.True(t, result.Packages[1].HasFlag(models.FlagRolling))
	assert.Equal(t, 2, r.Count())
}

func TestReaderEmpty(t *testing.T) {
	r := NewReader(strings.NewReader("  \n"), "empty")
	_, err := r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReaderStateFormat(t *testing.T) {
	r := NewReader(strings.NewReader(`{"name":"zsh","version":"1.0"}`+"\n"), "old")
	_, err := r.Next()
	require.Error(t, err)

	var perr *models.ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, models.ErrStateFormat, perr.Type)
}

func TestReaderMalformed(t *testing.T) {
	r := NewReader(strings.NewReader("{not json"), "broken")
	_, err := r.Next()
	require.Error(t, err)

	var perr *models.ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, models.ErrPackageParse, perr.Type)
}

func TestLoadSkipsContentProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	bad := testPackage("zsh", " 5.8")
	require.NoError(t, WritePackages(path, []*models.Package{bad, testPackage("bash", "5.1")}))

	result, err := Load(path, LoadOptions{Transformed: true})
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	assert.Equal(t, "bash", result.Packages[0].Name)
	require.Len(t, result.Problems, 1)
	assert.True(t, models.IsContentProblem(result.Problems[0]))
}

func TestLoadAbortsOnStructuralFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	require.NoError(t, WritePackages(path, []*models.Package{testPackage("zsh", "5.8")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = []byte(strings.Replace(string(data), `"flags":0`, `"flags":"1"`, 1))
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Load(path, LoadOptions{Transformed: true})
	require.Error(t, err)
	assert.True(t, models.IsStructural(err))
}

func TestLoadPrepare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	pkg := testPackage("zsh", "5.8")
	pkg.Repo = ""
	pkg.Family = ""
	require.NoError(t, WritePackages(path, []*models.Package{pkg}))

	result, err := Load(path, LoadOptions{
		Transformed: true,
		Prepare: func(raw map[string]any) {
			raw["repo"] = "netbsd"
			raw["family"] = "pkgsrc"
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	assert.Equal(t, "netbsd", result.Packages[0].Repo)
	assert.Equal(t, "pkgsrc", result.Packages[0].Family)
}

func TestOpenUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}
