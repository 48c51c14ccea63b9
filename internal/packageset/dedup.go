package packageset

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/ralt/repology/internal/models"
)

// Key returns a hash of all attributes of a record
func Key(pkg *models.Package) (uint64, error) {
	return hashstructure.Hash(pkg, hashstructure.FormatV2, &hashstructure.HashOptions{
		ZeroNil: true,
	})
}

// Deduplicate drops records equal to an earlier one, keeping order
func Deduplicate(pkgs []*models.Package) ([]*models.Package, error) {
	seen := make(map[uint64][]*models.Package, len(pkgs))
	result := make([]*models.Package, 0, len(pkgs))

	for _, pkg := range pkgs {
		key, err := Key(pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", pkg.Name, err)
		}

		duplicate := false
		for _, other := range seen[key] {
			if pkg.Equal(other) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen[key] = append(seen[key], pkg)
		result = append(result, pkg)
	}

	return result, nil
}
