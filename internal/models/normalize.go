package models

import (
	"regexp"
	"sort"
	"strings"

	"github.com/scylladb/go-set/strset"
)

var homepageRe = regexp.MustCompile(`(?i)^(https?://)([^/]+)(/.*)?$`)

// Normalize rewrites fields into canonical form. It is idempotent.
func (p *Package) Normalize() {
	p.Homepage = NormalizeHomepage(p.Homepage)

	if len(p.Maintainers) > 1 {
		p.Maintainers = uniqueSorted(p.Maintainers)
	}
}

// NormalizeHomepage lowercases scheme and host of http(s) urls and makes sure
// a url pointing to a host ends with "/". Other values are returned as is.
func NormalizeHomepage(homepage string) string {
	if homepage == "" {
		return homepage
	}

	match := homepageRe.FindStringSubmatch(homepage)
	if match == nil {
		return homepage
	}

	path := match[3]
	if path == "" {
		path = "/"
	}
	return strings.ToLower(match[1]) + strings.ToLower(match[2]) + path
}

func uniqueSorted(values []string) []string {
	list := strset.New(values...).List()
	sort.Strings(list)
	return list
}
