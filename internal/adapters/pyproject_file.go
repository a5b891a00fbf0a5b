package adapters

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/types"
)

// PyProjectFileAdapter reads PEP 621 metadata from pyproject.toml:
// [project].dependencies plus every [project.optional-dependencies]
// group. Groups conventionally used for tooling are flagged as dev.
type PyProjectFileAdapter struct{}

func NewPyProjectFileAdapter() PyProjectFileAdapter {
	return PyProjectFileAdapter{}
}

func (a PyProjectFileAdapter) FileName() string {
	return "pyproject.toml"
}

var devGroups = map[string]bool{
	"dev":   true,
	"test":  true,
	"tests": true,
	"lint":  true,
	"doc":   true,
	"docs":  true,
	"build": true,
}

type pyProjectDoc struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

func (a PyProjectFileAdapter) Parse(path string) ([]types.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency file not accessible: " + path).
			WithCause(err)
	}

	var doc pyProjectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed TOML in " + path).
			WithCause(err)
	}

	var deps []types.Dependency
	appendEntries := func(entries []string, isDev bool) {
		for _, raw := range entries {
			dep, err := core.ParseRequirement(raw, path, isDev)
			if err != nil {
				log.Warn().Str("file", path).Str("entry", raw).Err(err).Msg("skipping unparseable requirement")
				continue
			}
			deps = append(deps, dep)
		}
	}
	appendEntries(doc.Project.Dependencies, false)
	groups := make([]string, 0, len(doc.Project.OptionalDependencies))
	for group := range doc.Project.OptionalDependencies {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		appendEntries(doc.Project.OptionalDependencies[group], devGroups[group])
	}
	return deps, nil
}

var _ ports.DependencyFilePort = PyProjectFileAdapter{}
