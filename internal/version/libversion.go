package version

import "strings"

var _ Comparator = Libversion{}

// Libversion implements the generic multi-component ordering used across
// distributions:
//
//	1.0alpha1 < 1.0 == 1.0.0 < 1.0patch1 < 1.0a < 1.0b < 1.1
//
// Versions are split into numeric and alphabetic components. Numbers compare
// numerically. Words are ranked as pre-release (alpha, beta, rc, pre...),
// post-release (post..., patch..., pl, errata) or unknown; unknown words are
// pre-release unless AnyIsPatch is given, and "p" is post-release only with
// PIsPatch. A word directly following a number and not followed by a digit is
// a letter suffix (1.0a) and ranks above any number.
type Libversion struct{}

type rank int

const (
	rankPreRelease rank = iota
	rankZero
	rankPostRelease
	rankNonZero
	rankLetterSuffix
)

type keywordClass int

const (
	keywordUnknown keywordClass = iota
	keywordPreRelease
	keywordPostRelease
)

type component struct {
	rank rank
	// digits without leading zeros, or the lowercased word
	value string
	alpha bool
}

// padding fills the shorter version so that 1.0 == 1.0.0
var padding = component{rank: rankZero}

// Compare implements Comparator
func (Libversion) Compare(v1, v2 string, flags1, flags2 uint) int {
	c1 := parseComponents(v1, flags1)
	c2 := parseComponents(v2, flags2)

	n := len(c1)
	if len(c2) > n {
		n = len(c2)
	}

	for i := 0; i < n; i++ {
		a, b := padding, padding
		if i < len(c1) {
			a = c1[i]
		}
		if i < len(c2) {
			b = c2[i]
		}
		if res := compareComponents(a, b); res != 0 {
			return res
		}
	}
	return 0
}

func parseComponents(v string, flags uint) []component {
	var comps []component

	i := 0
	for {
		for i < len(v) && !isAlpha(v[i]) && !isDigit(v[i]) {
			i++
		}
		if i >= len(v) {
			return comps
		}

		start := i
		if isAlpha(v[i]) {
			for i < len(v) && isAlpha(v[i]) {
				i++
			}
			comps = append(comps, wordComponent(v[start:i], flags))
			continue
		}

		for i < len(v) && isDigit(v[i]) {
			i++
		}
		num := strings.TrimLeft(v[start:i], "0")
		if num == "" {
			comps = append(comps, component{rank: rankZero})
		} else {
			comps = append(comps, component{rank: rankNonZero, value: num})
		}

		// letter suffix: 1.0a, 1.0a.1, but not 1.0a1
		if i < len(v) && isAlpha(v[i]) {
			j := i
			for j < len(v) && isAlpha(v[j]) {
				j++
			}
			if j < len(v) && isDigit(v[j]) {
				continue
			}
			word := v[i:j]
			c := component{value: strings.ToLower(word), alpha: true}
			switch classifyKeyword(word, flags) {
			case keywordPreRelease:
				c.rank = rankPreRelease
			case keywordPostRelease:
				c.rank = rankPostRelease
			default:
				c.rank = rankLetterSuffix
			}
			comps = append(comps, c)
			i = j
		}
	}
}

func wordComponent(word string, flags uint) component {
	c := component{value: strings.ToLower(word), alpha: true}
	switch classifyKeyword(word, flags) {
	case keywordPreRelease:
		c.rank = rankPreRelease
	case keywordPostRelease:
		c.rank = rankPostRelease
	default:
		if flags&AnyIsPatch != 0 {
			c.rank = rankPostRelease
		} else {
			c.rank = rankPreRelease
		}
	}
	return c
}

func classifyKeyword(word string, flags uint) keywordClass {
	word = strings.ToLower(word)
	switch {
	case word == "alpha" || word == "beta" || word == "rc" || strings.HasPrefix(word, "pre"):
		return keywordPreRelease
	case strings.HasPrefix(word, "post") || strings.HasPrefix(word, "patch") || word == "pl" || word == "errata":
		return keywordPostRelease
	case word == "p" && flags&PIsPatch != 0:
		return keywordPostRelease
	}
	return keywordUnknown
}

func compareComponents(a, b component) int {
	if a.rank != b.rank {
		if a.rank < b.rank {
			return -1
		}
		return 1
	}

	switch {
	case a.alpha && b.alpha:
		// words compare by their first letter only, so "a" == "alpha"
		return compareBytes(a.value[0], b.value[0])
	case a.alpha:
		return -1
	case b.alpha:
		return 1
	}

	if len(a.value) != len(b.value) {
		if len(a.value) < len(b.value) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.value, b.value)
}

func compareBytes(a, b byte) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
