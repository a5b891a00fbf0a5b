package adapters

import (
	"os"
	"regexp"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/types"
)

// SetupScanAdapter extracts install_requires entries from setup.py
// without executing it. Only string literals inside a literal list are
// recognized; computed values are out of reach for a static scan.
type SetupScanAdapter struct{}

func NewSetupScanAdapter() SetupScanAdapter {
	return SetupScanAdapter{}
}

func (a SetupScanAdapter) FileName() string {
	return "setup.py"
}

var (
	installRequiresBlock = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	setupStringLiteral   = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

func (a SetupScanAdapter) Parse(path string) ([]types.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency file not accessible: " + path).
			WithCause(err)
	}

	block := installRequiresBlock.FindSubmatch(data)
	if block == nil {
		return nil, nil
	}

	var deps []types.Dependency
	for _, match := range setupStringLiteral.FindAllSubmatch(block[1], -1) {
		raw := string(match[1])
		dep, err := core.ParseRequirement(raw, path, false)
		if err != nil {
			log.Warn().Str("file", path).Str("entry", raw).Err(err).Msg("skipping unparseable requirement")
			continue
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

var _ ports.DependencyFilePort = SetupScanAdapter{}
