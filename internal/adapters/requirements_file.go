package adapters

import (
	"bufio"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/types"
)

// RequirementsFileAdapter parses the requirements.txt line grammar:
// one entry per non-blank, non-comment line, backslash continuations
// joined, pip option lines and direct URL/VCS references skipped.
type RequirementsFileAdapter struct{}

func NewRequirementsFileAdapter() RequirementsFileAdapter {
	return RequirementsFileAdapter{}
}

func (a RequirementsFileAdapter) FileName() string {
	return "requirements.txt"
}

func (a RequirementsFileAdapter) Parse(path string) ([]types.Dependency, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency file not accessible: " + path).
			WithCause(err)
	}
	defer file.Close()

	var deps []types.Dependency
	var pending string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasSuffix(line, "\\") {
			pending += strings.TrimSuffix(line, "\\") + " "
			continue
		}
		line = strings.TrimSpace(pending + line)
		pending = ""

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip options (-r, -e, --index-url, ...) and pinned locations
		// are not version declarations.
		if strings.HasPrefix(line, "-") || strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}

		dep, err := core.ParseRequirement(line, path, false)
		if err != nil {
			log.Warn().Str("file", path).Str("line", line).Err(err).Msg("skipping unparseable requirement")
			continue
		}
		deps = append(deps, dep)
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed reading " + path).
			WithCause(err)
	}
	return deps, nil
}

var _ ports.DependencyFilePort = RequirementsFileAdapter{}
