package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"pypkg/internal/shared"
	"pypkg/internal/types"
)

// opTokens is the ordered list of specifier operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpEq,
	types.ConstraintOpNe,
	types.ConstraintOpCompat,
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

var releasePrefix = regexp.MustCompile(`^(\d+!)?\d+(\.\d+)*`)

// ConstraintSet is the feasible set of a version specifier, represented
// as sorted disjoint intervals over PEP 440 versions. The zero value is
// not meaningful; use ParseSpecifier or Universal.
type ConstraintSet struct {
	raw     string
	clauses []types.Constraint

	intervals []interval

	// prereleases lists prerelease versions named verbatim in the
	// specifier. Naming a prerelease opts that single version back in
	// for satisfaction checks.
	prereleases []pep440.Version
}

// Universal is the unconstrained set: every version satisfies it.
func Universal() ConstraintSet {
	return ConstraintSet{intervals: []interval{unboundedInterval()}}
}

// ParseSpecifier parses a PEP 440 version specifier such as
// ">=1.0,<2.0" or "==1.4.*" into a ConstraintSet. Empty input parses to
// the universal set. A specifier whose clauses are mutually exclusive
// (empty feasible set) is rejected as unsatisfiable.
func ParseSpecifier(text string) (ConstraintSet, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Universal(), nil
	}

	clauses, err := ParseClauses(trimmed)
	if err != nil {
		return ConstraintSet{}, err
	}

	set := Universal()
	for _, clause := range clauses {
		clauseSet, err := setForClause(clause)
		if err != nil {
			return ConstraintSet{}, err
		}
		set = set.Intersect(clauseSet)
	}
	set.raw = trimmed
	set.clauses = clauses
	if set.IsEmpty() {
		return ConstraintSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsatisfiable specifier: %s", trimmed))
	}
	return set, nil
}

// ParseClauses splits a specifier into its operator clauses without
// building the interval set.
func ParseClauses(text string) ([]types.Constraint, error) {
	var clauses []types.Constraint
	for _, piece := range strings.Split(text, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("empty clause in specifier: %s", text))
		}
		clause, err := parseClause(piece)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func parseClause(piece string) (types.Constraint, error) {
	for _, op := range opTokens {
		if strings.HasPrefix(piece, string(op)) {
			version := strings.TrimSpace(strings.TrimPrefix(piece, string(op)))
			if version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("missing version in clause: %s", piece))
			}
			return types.Constraint{Op: op, Version: version}, nil
		}
	}
	return types.Constraint{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unsupported specifier clause: %s", piece))
}

// ParseVersion parses a version string, classifying failures as parse
// errors.
func ParseVersion(value string) (pep440.Version, error) {
	parsed, err := pep440.Parse(strings.TrimSpace(value))
	if err != nil {
		return pep440.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version: %s", value)).
			WithCause(err)
	}
	return parsed, nil
}

func setForClause(clause types.Constraint) (ConstraintSet, error) {
	wildcard := strings.HasSuffix(clause.Version, ".*")
	if wildcard && clause.Op != types.ConstraintOpEq && clause.Op != types.ConstraintOpNe {
		return ConstraintSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("wildcard requires == or !=: %s%s", clause.Op, clause.Version))
	}

	var set ConstraintSet
	switch {
	case wildcard:
		lo, hi, err := wildcardBounds(strings.TrimSuffix(clause.Version, ".*"))
		if err != nil {
			return ConstraintSet{}, err
		}
		within := interval{lower: lo, upper: hi}
		if clause.Op == types.ConstraintOpEq {
			set.intervals = []interval{within}
		} else {
			set.intervals = complementOf(within)
		}
	case clause.Op == types.ConstraintOpCompat:
		lower, err := ParseVersion(clause.Version)
		if err != nil {
			return ConstraintSet{}, err
		}
		upper, err := compatUpperBound(clause.Version)
		if err != nil {
			return ConstraintSet{}, err
		}
		set.intervals = []interval{{
			lower: newBound(lower, clause.Version, true),
			upper: upper,
		}}
	default:
		parsed, err := ParseVersion(clause.Version)
		if err != nil {
			return ConstraintSet{}, err
		}
		b := func(inclusive bool) bound { return newBound(parsed, clause.Version, inclusive) }
		switch clause.Op {
		case types.ConstraintOpEq:
			set.intervals = []interval{{lower: b(true), upper: b(true)}}
		case types.ConstraintOpNe:
			set.intervals = complementOf(interval{lower: b(true), upper: b(true)})
		case types.ConstraintOpGte:
			set.intervals = []interval{{lower: b(true)}}
		case types.ConstraintOpGt:
			set.intervals = []interval{{lower: b(false)}}
		case types.ConstraintOpLte:
			set.intervals = []interval{{upper: b(true)}}
		case types.ConstraintOpLt:
			set.intervals = []interval{{upper: b(false)}}
		default:
			return ConstraintSet{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported operator: %s", clause.Op))
		}
	}

	if !wildcard && shared.IsPreRelease(clause.Version) {
		if named, err := ParseVersion(clause.Version); err == nil {
			set.prereleases = append(set.prereleases, named)
		}
	}
	return set, nil
}

// complementOf returns the versions outside the given interval.
func complementOf(iv interval) []interval {
	var out []interval
	if iv.lower.defined {
		below := interval{upper: iv.lower}
		below.upper.inclusive = !iv.lower.inclusive
		out = append(out, below)
	}
	if iv.upper.defined {
		above := interval{lower: iv.upper}
		above.lower.inclusive = !iv.upper.inclusive
		out = append(out, above)
	}
	return out
}

// wildcardBounds computes the half-open range covered by a "==X.Y.*"
// prefix: [X.Y.dev0, X.(Y+1).dev0). The dev0 endpoints keep
// prereleases of the neighbouring releases on the correct side.
func wildcardBounds(prefix string) (bound, bound, error) {
	if !releasePrefix.MatchString(prefix) || releasePrefix.FindString(prefix) != prefix {
		return bound{}, bound{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid wildcard prefix: %s.*", prefix))
	}
	bumped, err := bumpLastComponent(prefix)
	if err != nil {
		return bound{}, bound{}, err
	}
	lowRaw := prefix + ".dev0"
	highRaw := bumped + ".dev0"
	low, err := ParseVersion(lowRaw)
	if err != nil {
		return bound{}, bound{}, err
	}
	high, err := ParseVersion(highRaw)
	if err != nil {
		return bound{}, bound{}, err
	}
	return newBound(low, lowRaw, true), newBound(high, highRaw, false), nil
}

// compatUpperBound derives the exclusive upper bound of a compatible
// release clause: ~=X.Y.Z pins everything but the last release
// component, so the bound is X.(Y+1).dev0.
func compatUpperBound(version string) (bound, error) {
	release := releasePrefix.FindString(version)
	if release == "" {
		return bound{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid compatible-release version: %s", version))
	}
	epoch := ""
	rest := release
	if i := strings.Index(release, "!"); i >= 0 {
		epoch = release[:i+1]
		rest = release[i+1:]
	}
	parts := strings.Split(rest, ".")
	if len(parts) < 2 {
		return bound{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("compatible release needs at least two components: ~=%s", version))
	}
	prefix := epoch + strings.Join(parts[:len(parts)-1], ".")
	bumped, err := bumpLastComponent(prefix)
	if err != nil {
		return bound{}, err
	}
	raw := bumped + ".dev0"
	parsed, err := ParseVersion(raw)
	if err != nil {
		return bound{}, err
	}
	return newBound(parsed, raw, false), nil
}

func bumpLastComponent(prefix string) (string, error) {
	epoch := ""
	rest := prefix
	if i := strings.Index(prefix, "!"); i >= 0 {
		epoch = prefix[:i+1]
		rest = prefix[i+1:]
	}
	parts := strings.Split(rest, ".")
	last := parts[len(parts)-1]
	n, err := strconv.Atoi(last)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("non-numeric release component: %s", prefix)).
			WithCause(err)
	}
	parts[len(parts)-1] = strconv.Itoa(n + 1)
	return epoch + strings.Join(parts, "."), nil
}

// Intersect combines two sets, keeping only versions feasible in both.
// The operation is commutative, associative and idempotent; Empty
// absorbs everything.
func (s ConstraintSet) Intersect(o ConstraintSet) ConstraintSet {
	out := ConstraintSet{
		raw:         joinRaw(s.raw, o.raw),
		prereleases: mergePrereleases(s.prereleases, o.prereleases),
	}
	for _, a := range s.intervals {
		for _, b := range o.intervals {
			if merged, ok := intersectIntervals(a, b); ok {
				out.intervals = append(out.intervals, merged)
			}
		}
	}
	out.intervals = canonicalize(out.intervals)
	return out
}

func joinRaw(a string, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case a == b:
		return a
	default:
		return a + "," + b
	}
}

func mergePrereleases(a []pep440.Version, b []pep440.Version) []pep440.Version {
	out := append([]pep440.Version(nil), a...)
	for _, v := range b {
		found := false
		for _, existing := range out {
			if existing.Compare(v) == 0 {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func canonicalize(intervals []interval) []interval {
	sort.SliceStable(intervals, func(i, j int) bool {
		if !intervals[i].lower.equal(intervals[j].lower) {
			return lessLower(intervals[i].lower, intervals[j].lower)
		}
		return lessLower(intervals[i].upper, intervals[j].upper)
	})
	var out []interval
	for _, iv := range intervals {
		if len(out) > 0 && out[len(out)-1].equal(iv) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// IsEmpty reports whether no version can satisfy the set.
func (s ConstraintSet) IsEmpty() bool {
	return len(s.intervals) == 0
}

// IsUniversal reports whether every version satisfies the set.
func (s ConstraintSet) IsUniversal() bool {
	return len(s.intervals) == 1 && !s.intervals[0].lower.defined && !s.intervals[0].upper.defined
}

// Equal compares the feasible sets, ignoring the textual form they were
// parsed from.
func (s ConstraintSet) Equal(o ConstraintSet) bool {
	if len(s.intervals) != len(o.intervals) {
		return false
	}
	for i := range s.intervals {
		if !s.intervals[i].equal(o.intervals[i]) {
			return false
		}
	}
	return true
}

// Contains reports pure interval membership without prerelease gating.
func (s ConstraintSet) Contains(v pep440.Version) bool {
	for _, iv := range s.intervals {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

// Satisfies reports whether a version satisfies the set. Versions
// carrying a prerelease or development tag are excluded unless
// allowPrerelease is true or the specifier named that exact version.
func (s ConstraintSet) Satisfies(version string, allowPrerelease bool) (bool, error) {
	parsed, err := ParseVersion(version)
	if err != nil {
		return false, err
	}
	if shared.IsPreRelease(version) && !allowPrerelease && !s.namesPrerelease(parsed) {
		return false, nil
	}
	return s.Contains(parsed), nil
}

func (s ConstraintSet) namesPrerelease(v pep440.Version) bool {
	for _, named := range s.prereleases {
		if named.Compare(v) == 0 {
			return true
		}
	}
	return false
}

// Clauses returns the operator clauses the set was parsed from. Derived
// sets (intersections) carry no clauses.
func (s ConstraintSet) Clauses() []types.Constraint {
	return append([]types.Constraint(nil), s.clauses...)
}

// Raw returns the specifier text the set was parsed from.
func (s ConstraintSet) Raw() string {
	return s.raw
}

func (s ConstraintSet) String() string {
	if s.raw != "" {
		return s.raw
	}
	if s.IsUniversal() {
		return "*"
	}
	return formatIntervals(s.intervals)
}
