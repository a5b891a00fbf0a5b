package app

import (
	"context"
	"os"
	"path/filepath"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/types"
)

// AnalyzeProject scans a project directory for the dependency files it
// recognizes and aggregates every declared dependency. Files are
// visited in a fixed order; a file that fails to parse is reported and
// skipped, it does not abort the scan.
func (s Service) AnalyzeProject(ctx context.Context, projectPath string) (types.ProjectInfo, error) {
	if projectPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return types.ProjectInfo{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to determine working directory").
				WithCause(err)
		}
		projectPath = cwd
	}

	stat, err := os.Stat(projectPath)
	if err != nil || !stat.IsDir() {
		return types.ProjectInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project directory not accessible: " + projectPath)
	}

	info := types.ProjectInfo{ProjectPath: projectPath}
	for _, port := range s.Files {
		if err := ctx.Err(); err != nil {
			return types.ProjectInfo{}, err
		}
		assert.NotEmpty(ctx, port.FileName(), "dependency file port must name its file")
		path := filepath.Join(projectPath, port.FileName())
		if _, err := os.Stat(path); err != nil {
			continue
		}
		info.DependencyFiles = append(info.DependencyFiles, port.FileName())
		deps, err := port.Parse(path)
		if err != nil {
			log.Warn().Str("file", path).Err(err).Msg("skipping unparseable dependency file")
			continue
		}
		info.Dependencies = append(info.Dependencies, deps...)
	}
	return info, nil
}
