package adapters

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/types"
)

// PipfileAdapter reads the [packages] and [dev-packages] tables of a
// Pipfile. Values are either a bare specifier string ("*" meaning any
// version) or an inline table with version/extras keys.
type PipfileAdapter struct{}

func NewPipfileAdapter() PipfileAdapter {
	return PipfileAdapter{}
}

func (a PipfileAdapter) FileName() string {
	return "Pipfile"
}

type pipfileDoc struct {
	Packages    map[string]toml.Primitive `toml:"packages"`
	DevPackages map[string]toml.Primitive `toml:"dev-packages"`
}

type pipfileEntry struct {
	Version string   `toml:"version"`
	Extras  []string `toml:"extras"`
}

func (a PipfileAdapter) Parse(path string) ([]types.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency file not accessible: " + path).
			WithCause(err)
	}

	var doc pipfileDoc
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed TOML in " + path).
			WithCause(err)
	}

	var deps []types.Dependency
	deps = append(deps, a.parseTable(meta, doc.Packages, path, false)...)
	deps = append(deps, a.parseTable(meta, doc.DevPackages, path, true)...)
	return deps, nil
}

func (a PipfileAdapter) parseTable(meta toml.MetaData, table map[string]toml.Primitive, path string, isDev bool) []types.Dependency {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var deps []types.Dependency
	for _, name := range names {
		raw := name
		var version string
		if err := meta.PrimitiveDecode(table[name], &version); err == nil {
			if version != "" && version != "*" {
				raw += version
			}
		} else {
			var entry pipfileEntry
			if err := meta.PrimitiveDecode(table[name], &entry); err != nil {
				log.Warn().Str("file", path).Str("package", name).Err(err).Msg("skipping unparseable Pipfile entry")
				continue
			}
			if len(entry.Extras) > 0 {
				raw += "[" + strings.Join(entry.Extras, ",") + "]"
			}
			if entry.Version != "" && entry.Version != "*" {
				raw += entry.Version
			}
		}

		dep, err := core.ParseRequirement(raw, path, isDev)
		if err != nil {
			log.Warn().Str("file", path).Str("entry", raw).Err(err).Msg("skipping unparseable requirement")
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

var _ ports.DependencyFilePort = PipfileAdapter{}
