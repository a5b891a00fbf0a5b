package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pypkg/internal/shared"
	"pypkg/internal/types"
)

var (
	requirementName = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	inlineComment   = regexp.MustCompile(`\s#`)
)

// ParseRequirement parses one PEP 508-style dependency string:
// name, optional [extras], optional version specifier, optional
// "; marker" captured verbatim. Inline comments are stripped. Direct
// URL references ("name @ https://...") keep the name and drop the
// location.
func ParseRequirement(raw string, sourceFile string, isDev bool) (types.Dependency, error) {
	line := raw
	if loc := inlineComment.FindStringIndex(line); loc != nil {
		line = line[:loc[0]]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return types.Dependency{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty requirement")
	}

	marker := ""
	if i := strings.Index(line, ";"); i >= 0 {
		marker = strings.TrimSpace(line[i+1:])
		line = strings.TrimSpace(line[:i])
	}

	name := requirementName.FindString(line)
	if name == "" {
		return types.Dependency{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid requirement name: %s", raw))
	}
	rest := strings.TrimSpace(line[len(name):])

	var extras []string
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return types.Dependency{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unterminated extras in requirement: %s", raw))
		}
		for _, extra := range strings.Split(rest[1:end], ",") {
			extra = strings.TrimSpace(extra)
			if extra != "" {
				extras = append(extras, strings.ToLower(extra))
			}
		}
		sort.Strings(extras)
		rest = strings.TrimSpace(rest[end+1:])
	}

	dep := types.Dependency{
		Name:           name,
		NormalizedName: shared.NormalizePipName(name),
		Extras:         extras,
		Marker:         marker,
		SourceFile:     sourceFile,
		IsDev:          isDev,
	}

	// Direct references pin a location instead of a version range; the
	// location itself is out of scope here.
	if strings.HasPrefix(rest, "@") {
		return dep, nil
	}

	// PEP 508 allows the specifier in parentheses.
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")"))
	if rest != "" {
		set, err := ParseSpecifier(rest)
		if err != nil {
			return types.Dependency{}, err
		}
		dep.VersionSpec = rest
		dep.Constraints = set.Clauses()
	}
	return dep, nil
}
