package packageset

import (
	"context"
	"runtime"
	"sort"

	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/repoman"
	"github.com/ralt/repology/internal/version"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/sync/errgroup"
)

// Group is the set of records sharing an effname
type Group struct {
	EffName  string
	Packages []*models.Package
}

// GroupByEffname splits records into groups ordered by effname. Records
// without effname are grouped by name.
func GroupByEffname(pkgs []*models.Package) []Group {
	byName := make(map[string][]*models.Package)
	for _, pkg := range pkgs {
		name := pkg.EffName
		if name == "" {
			name = pkg.Name
		}
		byName[name] = append(byName[name], pkg)
	}

	groups := make([]Group, 0, len(byName))
	for name, members := range byName {
		groups = append(groups, Group{EffName: name, Packages: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].EffName < groups[j].EffName
	})
	return groups
}

var ignoredClasses = []struct {
	flag  models.PackageFlags
	class models.VersionClass
}{
	{models.FlagIgnore, models.VersionClassIgnored},
	{models.FlagIncorrect, models.VersionClassIncorrect},
	{models.FlagUntrusted, models.VersionClassUntrusted},
	{models.FlagNoScheme, models.VersionClassNoScheme},
}

// FillVersionClasses assigns a version class to every record of one effname
// group
func FillVersionClasses(pkgs []*models.Package, cmp version.Comparator) {
	var candidates []*models.Package

	for _, pkg := range pkgs {
		pkg.VersionClass = 0
		if pkg.HasFlag(models.FlagRolling) {
			pkg.VersionClass = models.VersionClassRolling
			continue
		}
		for _, ic := range ignoredClasses {
			if pkg.HasFlag(ic.flag) {
				pkg.VersionClass = ic.class
				break
			}
		}
		if pkg.VersionClass != 0 {
			continue
		}
		if pkg.HasFlag(models.FlagOutdated) {
			pkg.VersionClass = models.VersionClassOutdated
			continue
		}
		candidates = append(candidates, pkg)
	}

	var best *models.Package
	for _, pkg := range candidates {
		if pkg.HasFlag(models.FlagDevel) {
			continue
		}
		if best == nil || pkg.CompareWith(cmp, best) > 0 {
			best = pkg
		}
	}

	var newest []*models.Package
	newestRepos := strset.New()
	newestFamilies := strset.New()
	var older []*models.Package

	for _, pkg := range candidates {
		res := 1
		if best != nil {
			res = pkg.CompareWith(cmp, best)
		}

		switch {
		case res > 0:
			pkg.VersionClass = models.VersionClassDevel
		case res == 0:
			newest = append(newest, pkg)
			newestRepos.Add(pkg.Repo)
			newestFamilies.Add(pkg.Family)
		default:
			older = append(older, pkg)
		}
	}

	for _, pkg := range newest {
		if newestFamilies.Size() == 1 {
			pkg.VersionClass = models.VersionClassUnique
		} else {
			pkg.VersionClass = models.VersionClassNewest
		}
	}

	for _, pkg := range older {
		if pkg.HasFlag(models.FlagLegacy) || newestRepos.Has(pkg.Repo) {
			pkg.VersionClass = models.VersionClassLegacy
		} else {
			pkg.VersionClass = models.VersionClassOutdated
		}
	}
}

// ComparatorResolver picks the version comparator for one group
type ComparatorResolver func(group Group) version.Comparator

// FixedComparator uses cmp for every group
func FixedComparator(cmp version.Comparator) ComparatorResolver {
	return func(Group) version.Comparator { return cmp }
}

// RepositoryComparator uses the scheme of the group's repositories when all
// of them are known to m and agree on it, and fallback otherwise.
func RepositoryComparator(m *repoman.Manager, fallback version.Comparator) ComparatorResolver {
	return func(group Group) version.Comparator {
		var chosen *repoman.Repository
		for _, pkg := range group.Packages {
			repo, err := m.GetRepository(pkg.Repo)
			if err != nil {
				return fallback
			}
			if chosen == nil {
				chosen = repo
				continue
			}
			if schemeName(repo) != schemeName(chosen) {
				return fallback
			}
		}
		if chosen == nil {
			return fallback
		}
		return chosen.Comparator()
	}
}

func schemeName(repo *repoman.Repository) string {
	if repo.VersionScheme == "" {
		return version.SchemeLibversion
	}
	return repo.VersionScheme
}

// Classify assigns version classes to all groups using up to workers
// goroutines. Each group is owned by a single goroutine.
func Classify(ctx context.Context, groups []Group, resolve ComparatorResolver, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, group := range groups {
		group := group
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			FillVersionClasses(group.Packages, resolve(group))
			return nil
		})
	}

	return g.Wait()
}
