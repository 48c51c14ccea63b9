package repoman

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ralt/repology/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRepos = `
- name: freebsd
  desc: FreeBSD Ports
  family: freebsd
  minpackages: 100
  default_maintainer: ports@freebsd.org
  tags: [all, production, bsd]
  sources:
    - name: INDEX

- name: centos_7
  sortname: centos_07
  desc: CentOS 7
  family: centos
  valid_till: '2024-06-30'
  versionscheme: rpm
  tags: [all, production]
  sources:
    - name: [os, updates]
      subrepo: '{source}'

- name: arch
  desc: Arch
  family: arch
  shadow: true
  tags: all
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(testRepos))
	require.NoError(t, err)

	repo, err := m.GetRepository("centos_7")
	require.NoError(t, err)

	assert.Equal(t, "centos", repo.Family)
	assert.Equal(t, "CentOS 7 package", repo.Singular)
	assert.Equal(t, StringList{"centos"}, repo.Ruleset)
	assert.Equal(t, []Source{{Name: "os", Subrepo: "os"}, {Name: "updates", Subrepo: "updates"}}, repo.Sources)
	assert.Equal(t, version.RPM{}, repo.Comparator())

	arch, err := m.GetRepository("arch")
	require.NoError(t, err)
	assert.Equal(t, "arch", arch.SortName)
	assert.True(t, arch.Shadow)
	assert.Equal(t, StringList{"all"}, arch.Tags)
	assert.Equal(t, version.Default, arch.Comparator())

	_, err = m.GetRepository("debian")
	assert.Error(t, err)
}

func TestGetRepositories(t *testing.T) {
	m, err := Parse([]byte(testRepos))
	require.NoError(t, err)

	assert.Empty(t, m.GetRepositories(nil))

	var names []string
	for _, repo := range m.GetRepositories([]string{"production"}) {
		names = append(names, repo.Name)
	}
	assert.Equal(t, []string{"freebsd", "centos_7"}, names)

	assert.Equal(t, []string{"arch", "centos_7", "freebsd"}, m.GetNames([]string{"all"}))
	assert.Equal(t, []string{"arch", "freebsd"}, m.GetNames([]string{"arch", "bsd"}))
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"missing family": "- name: x\n",
		"duplicate":      "- {name: x, family: x}\n- {name: x, family: x}\n",
		"bad scheme":     "- {name: x, family: x, versionscheme: semver}\n",
		"bad valid_till": "- {name: x, family: x, valid_till: tomorrow}\n",
		"not a list":     "name: x\n",
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(text))
			assert.Error(t, err)
		})
	}
}

func TestReachedEOL(t *testing.T) {
	repo := &Repository{ValidTill: "2024-06-30"}

	assert.False(t, repo.ReachedEOL(time.Date(2024, 6, 29, 12, 0, 0, 0, time.UTC)))
	assert.True(t, repo.ReachedEOL(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, (&Repository{}).ReachedEOL(time.Now()))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "linux"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bsd.yaml"), []byte("- {name: freebsd, family: freebsd, tags: [all]}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linux", "arch.yaml"), []byte("- {name: arch, family: arch, tags: [all]}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not yaml: ["), 0644))

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"arch", "freebsd"}, m.GetNames([]string{"all"}))
}

func TestSourcePath(t *testing.T) {
	m, err := Parse([]byte(testRepos))
	require.NoError(t, err)

	assert.Len(t, m.Repositories(), 3)
	assert.Equal(t, []string{"arch", "centos_7", "freebsd"}, m.AllNames())
	assert.Equal(t, "freebsd", m.Repositories()[0].Name)

	repo, err := m.GetRepository("centos_7")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/state", "centos_7.state"), StatePath("/state", repo))
	assert.Equal(t, filepath.Join("/state", "centos_7.state", "x86_64_os"), SourcePath("/state", repo, Source{Name: "x86_64/os"}))
}
