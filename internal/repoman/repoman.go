// Package repoman loads repository definitions.
package repoman

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ralt/repology/internal/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const validTillLayout = "2006-01-02"

// StringList accepts either a single string or a list of strings
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (s *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = StringList{single}
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Source is one input of a repository
type Source struct {
	Name    string `yaml:"-"`
	Subrepo string `yaml:"subrepo"`
}

type rawSource struct {
	Name    StringList `yaml:"name"`
	Subrepo string     `yaml:"subrepo"`
}

// Repository describes a package repository
type Repository struct {
	Name              string      `yaml:"name"`
	SortName          string      `yaml:"sortname"`
	Desc              string      `yaml:"desc"`
	Singular          string      `yaml:"singular"`
	Family            string      `yaml:"family"`
	Type              string      `yaml:"type"`
	Color             string      `yaml:"color"`
	MinPackages       int         `yaml:"minpackages"`
	Shadow            bool        `yaml:"shadow"`
	Incomplete        bool        `yaml:"incomplete"`
	DefaultMaintainer string      `yaml:"default_maintainer"`
	ValidTill         string      `yaml:"valid_till"`
	VersionScheme     string      `yaml:"versionscheme"`
	Tags              StringList  `yaml:"tags"`
	Ruleset           StringList  `yaml:"ruleset"`
	RawSources        []rawSource `yaml:"sources"`

	// Sources with name lists expanded
	Sources []Source `yaml:"-"`
}

// Manager holds the loaded repository definitions
type Manager struct {
	repositories []*Repository
	byName       map[string]*Repository
}

// Load reads every .yaml file below dir
func Load(dir string) (*Manager, error) {
	var repos []*Repository

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var fileRepos []*Repository
		if err := yaml.Unmarshal(data, &fileRepos); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		logrus.Debugf("Loaded %d repositories from %s", len(fileRepos), path)
		repos = append(repos, fileRepos...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	return newManager(repos)
}

// Parse reads repository definitions from YAML text
func Parse(text []byte) (*Manager, error) {
	var repos []*Repository
	if err := yaml.Unmarshal(text, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse repositories: %w", err)
	}
	return newManager(repos)
}

func newManager(repos []*Repository) (*Manager, error) {
	m := &Manager{
		byName: make(map[string]*Repository, len(repos)),
	}

	for _, repo := range repos {
		if repo.Name == "" {
			return nil, fmt.Errorf("repository without name")
		}
		if repo.Family == "" {
			return nil, fmt.Errorf("repository %s: family is required", repo.Name)
		}
		if _, ok := m.byName[repo.Name]; ok {
			return nil, fmt.Errorf("duplicate repository %s", repo.Name)
		}
		if _, err := version.ForScheme(repo.VersionScheme); err != nil {
			return nil, fmt.Errorf("repository %s: %w", repo.Name, err)
		}
		if repo.ValidTill != "" {
			if _, err := time.Parse(validTillLayout, repo.ValidTill); err != nil {
				return nil, fmt.Errorf("repository %s: invalid valid_till: %w", repo.Name, err)
			}
		}

		repo.Sources = expandSources(repo.RawSources)

		if repo.SortName == "" {
			repo.SortName = repo.Name
		}
		if repo.Singular == "" {
			repo.Singular = repo.Desc + " package"
		}
		if len(repo.Ruleset) == 0 {
			repo.Ruleset = StringList{repo.Family}
		}

		m.repositories = append(m.repositories, repo)
		m.byName[repo.Name] = repo
	}

	return m, nil
}

// expandSources turns a source with a list of names into one source per
// name, substituting {source} in string attributes
func expandSources(raw []rawSource) []Source {
	var sources []Source
	for _, rs := range raw {
		for _, name := range rs.Name {
			sources = append(sources, Source{
				Name:    name,
				Subrepo: strings.ReplaceAll(rs.Subrepo, "{source}", name),
			})
		}
	}
	return sources
}

// GetRepository returns the repository with the given name
func (m *Manager) GetRepository(name string) (*Repository, error) {
	repo, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown repository %s", name)
	}
	return repo, nil
}

// Repositories returns all repositories in definition order
func (m *Manager) Repositories() []*Repository {
	return m.repositories
}

// GetRepositories returns repositories matching any of the given names or
// tags, in definition order. No names select nothing.
func (m *Manager) GetRepositories(names []string) []*Repository {
	var result []*Repository
	for _, repo := range m.repositories {
		for _, name := range names {
			if name == repo.Name || repo.HasTag(name) {
				result = append(result, repo)
				break
			}
		}
	}
	return result
}

// GetNames returns names of the matching repositories ordered by sortname
func (m *Manager) GetNames(names []string) []string {
	return sortedNames(m.GetRepositories(names))
}

// AllNames returns names of all repositories ordered by sortname
func (m *Manager) AllNames() []string {
	return sortedNames(append([]*Repository(nil), m.repositories...))
}

func sortedNames(repos []*Repository) []string {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].SortName < repos[j].SortName
	})

	result := make([]string, 0, len(repos))
	for _, repo := range repos {
		result = append(result, repo.Name)
	}
	return result
}

// HasTag reports whether the repository carries tag
func (r *Repository) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ReachedEOL reports whether the repository is past its valid_till date
func (r *Repository) ReachedEOL(now time.Time) bool {
	if r.ValidTill == "" {
		return false
	}
	till, err := time.ParseInLocation(validTillLayout, r.ValidTill, now.Location())
	if err != nil {
		return false
	}
	return !now.Before(till)
}

// Comparator returns the version comparator for the repository's scheme
func (r *Repository) Comparator() version.Comparator {
	cmp, err := version.ForScheme(r.VersionScheme)
	if err != nil {
		// schemes are validated on load
		return version.Default
	}
	return cmp
}

// StatePath returns the directory holding the per source dumps of repo
func StatePath(dir string, repo *Repository) string {
	return filepath.Join(dir, repo.Name+".state")
}

// SourcePath returns the dump base path of a source. Slashes in source names
// are replaced so every source maps to a single file.
func SourcePath(dir string, repo *Repository, source Source) string {
	return filepath.Join(StatePath(dir, repo), strings.ReplaceAll(source.Name, "/", "_"))
}
