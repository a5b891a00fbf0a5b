package core

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// bound is one endpoint of a version interval. A zero bound (defined is
// false) means the interval is unbounded on that side.
type bound struct {
	version   pep440.Version
	raw       string
	inclusive bool
	defined   bool
}

func newBound(v pep440.Version, raw string, inclusive bool) bound {
	return bound{version: v, raw: raw, inclusive: inclusive, defined: true}
}

func (b bound) equal(o bound) bool {
	if b.defined != o.defined {
		return false
	}
	if !b.defined {
		return true
	}
	return b.version.Compare(o.version) == 0 && b.inclusive == o.inclusive
}

// interval is a contiguous, possibly unbounded range of versions.
type interval struct {
	lower bound
	upper bound
}

func unboundedInterval() interval {
	return interval{}
}

// feasible reports whether the interval contains at least one point.
func (iv interval) feasible() bool {
	if !iv.lower.defined || !iv.upper.defined {
		return true
	}
	cmp := iv.lower.version.Compare(iv.upper.version)
	if cmp < 0 {
		return true
	}
	if cmp == 0 {
		return iv.lower.inclusive && iv.upper.inclusive
	}
	return false
}

func (iv interval) contains(v pep440.Version) bool {
	if iv.lower.defined {
		cmp := v.Compare(iv.lower.version)
		if cmp < 0 || (cmp == 0 && !iv.lower.inclusive) {
			return false
		}
	}
	if iv.upper.defined {
		cmp := v.Compare(iv.upper.version)
		if cmp > 0 || (cmp == 0 && !iv.upper.inclusive) {
			return false
		}
	}
	return true
}

func (iv interval) equal(o interval) bool {
	return iv.lower.equal(o.lower) && iv.upper.equal(o.upper)
}

// String returns mathematical interval notation, e.g. "[1.0,2.0)".
func (iv interval) String() string {
	var sb strings.Builder
	if iv.lower.defined {
		if iv.lower.inclusive {
			sb.WriteByte('[')
		} else {
			sb.WriteByte('(')
		}
		sb.WriteString(iv.lower.raw)
	} else {
		sb.WriteString("(-inf")
	}
	sb.WriteByte(',')
	if iv.upper.defined {
		sb.WriteString(iv.upper.raw)
		if iv.upper.inclusive {
			sb.WriteByte(']')
		} else {
			sb.WriteByte(')')
		}
	} else {
		sb.WriteString("inf)")
	}
	return sb.String()
}

// maxLower picks the more restrictive of two lower bounds.
func maxLower(a bound, b bound) bound {
	if !a.defined {
		return b
	}
	if !b.defined {
		return a
	}
	cmp := a.version.Compare(b.version)
	switch {
	case cmp > 0:
		return a
	case cmp < 0:
		return b
	default:
		// Same version: exclusive is the tighter lower bound.
		if !a.inclusive {
			return a
		}
		return b
	}
}

// minUpper picks the more restrictive of two upper bounds.
func minUpper(a bound, b bound) bound {
	if !a.defined {
		return b
	}
	if !b.defined {
		return a
	}
	cmp := a.version.Compare(b.version)
	switch {
	case cmp < 0:
		return a
	case cmp > 0:
		return b
	default:
		if !a.inclusive {
			return a
		}
		return b
	}
}

// intersectIntervals returns the overlap of two intervals; ok is false
// when they are disjoint.
func intersectIntervals(a interval, b interval) (interval, bool) {
	out := interval{
		lower: maxLower(a.lower, b.lower),
		upper: minUpper(a.upper, b.upper),
	}
	if !out.feasible() {
		return interval{}, false
	}
	return out, true
}

// lessLower is a total order on lower bounds used for canonical sorting
// of interval sets. Unbounded sorts first; at equal versions an
// inclusive bound sorts before an exclusive one.
func lessLower(a bound, b bound) bool {
	if !a.defined || !b.defined {
		return !a.defined && b.defined
	}
	cmp := a.version.Compare(b.version)
	if cmp != 0 {
		return cmp < 0
	}
	return a.inclusive && !b.inclusive
}

func formatIntervals(intervals []interval) string {
	if len(intervals) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, " || ")
}
