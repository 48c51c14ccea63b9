// Package packageset turns decoded records of a repository into a processed
// package set and assigns version classes across repositories.
package packageset

import (
	"fmt"
	"sort"

	"github.com/ralt/repology/internal/logger"
	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/repoman"
)

// Options control processing of a repository
type Options struct {
	// Transformed requires effname on every record and sorts the result by it
	Transformed bool
	// SafetyChecks enforces the repository's minpackages
	SafetyChecks bool
	Logger       logger.Logger
}

// FallbackMaintainer is assigned to records of repositories without a
// default maintainer
func FallbackMaintainer(repo string) string {
	return fmt.Sprintf("fallback-mnt-%s@repology", repo)
}

// Prepare returns a hook which fills repository and source level attributes
// of an undecoded record, so that records from producers that leave them out
// pass the sanity checks.
func Prepare(repo *repoman.Repository, source repoman.Source) func(raw map[string]any) {
	return func(raw map[string]any) {
		raw["repo"] = repo.Name
		raw["family"] = repo.Family
		if repo.Shadow {
			raw["shadow"] = true
		}
		if source.Subrepo != "" {
			raw["subrepo"] = source.Subrepo
		}
		if isEmptyList(raw["maintainers"]) {
			raw["maintainers"] = []any{defaultMaintainer(repo)}
		}
	}
}

func defaultMaintainer(repo *repoman.Repository) string {
	if repo.DefaultMaintainer != "" {
		return repo.DefaultMaintainer
	}
	return FallbackMaintainer(repo.Name)
}

func isEmptyList(v any) bool {
	switch list := v.(type) {
	case nil:
		return true
	case []any:
		return len(list) == 0
	case []string:
		return len(list) == 0
	}
	return false
}

// Process checks, normalizes and deduplicates records of repo.
//
// Records with content problems are logged and dropped, a structural failure
// aborts processing. Records flagged remove are dropped.
func Process(repo *repoman.Repository, pkgs []*models.Package, opts Options) ([]*models.Package, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	log.Log("processing started")
	sanityLog := logger.Indented(log)

	result := make([]*models.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		pkg.Repo = repo.Name
		pkg.Family = repo.Family
		if repo.Shadow {
			pkg.Shadow = true
		}
		if len(pkg.Maintainers) == 0 {
			pkg.Maintainers = []string{defaultMaintainer(repo)}
		}

		if err := pkg.CheckSanity(opts.Transformed); err != nil {
			if !models.IsContentProblem(err) {
				sanityLog.Log("sanity error: " + err.Error())
				return nil, &models.ProcessError{Type: models.ErrSanity, Source: repo.Name, Err: err}
			}
			sanityLog.Log("sanity warning: " + err.Error())
			continue
		}

		pkg.Normalize()

		if pkg.HasFlag(models.FlagRemove) {
			continue
		}
		result = append(result, pkg)
	}

	log.Log(fmt.Sprintf("processing complete, %d packages, deduplicating", len(result)))

	result, err := Deduplicate(result)
	if err != nil {
		return nil, &models.ProcessError{Type: models.ErrPackageParse, Source: repo.Name, Err: err}
	}

	if opts.SafetyChecks && len(result) < repo.MinPackages {
		return nil, &models.ProcessError{
			Type:   models.ErrTooFewPackages,
			Source: repo.Name,
			Err:    fmt.Errorf("unexpectedly small number of packages: %d when expected no less than %d", len(result), repo.MinPackages),
		}
	}

	if opts.Transformed {
		log.Log(fmt.Sprintf("processing complete, %d packages, sorting", len(result)))
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffName < result[j].EffName
		})
	}

	log.Log(fmt.Sprintf("processing complete, %d packages", len(result)))

	return result, nil
}
