package dump

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ralt/repology/internal/logger"
	"github.com/ralt/repology/internal/models"
)

// LoadOptions control how records are decoded
type LoadOptions struct {
	// Transformed requires effname on every record
	Transformed bool
	// Prepare is called on every undecoded record before it is checked
	Prepare func(raw map[string]any)
	// Logger receives sanity messages, defaults to a no-op logger
	Logger logger.Logger
}

// LoadResult holds the records decoded from a dump
type LoadResult struct {
	Packages []*models.Package
	// Problems are content problems of skipped records
	Problems []error
}

// Load decodes every record of a dump. Records with content problems are
// logged and skipped; a structural failure aborts loading and is returned.
func Load(path string, opts LoadOptions) (*LoadResult, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.Load(opts)
}

// Load decodes the remaining records of r, see the package level Load
func (r *Reader) Load(opts LoadOptions) (*LoadResult, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	result := &LoadResult{}

	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.Prepare != nil {
			opts.Prepare(raw)
		}

		pkg, err := models.DecodePackage(raw, opts.Transformed)
		switch {
		case err == nil:
		case models.IsContentProblem(err):
			log.Log("sanity warning: " + err.Error())
			result.Problems = append(result.Problems, err)
			continue
		case models.IsStructural(err):
			log.Log("sanity error: " + err.Error())
			return nil, &models.ProcessError{Type: models.ErrSanity, Source: r.name, Err: err}
		default:
			return nil, r.parseError(err)
		}

		result.Packages = append(result.Packages, pkg)
	}

	logrus.Debugf("Read %d records from %s, %d skipped", r.Count(), r.name, len(result.Problems))
	return result, nil
}
