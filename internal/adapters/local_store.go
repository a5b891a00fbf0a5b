package adapters

import (
	"bufio"
	"context"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pypkg/internal/core"
	"pypkg/internal/ports"
	"pypkg/internal/shared"
	"pypkg/internal/types"
)

// LocalStore answers metadata lookups from installed distributions. It
// scans site-packages directories for <name>-<version>.dist-info
// entries and reads the METADATA file, which uses RFC 822 style
// headers.
type LocalStore struct {
	dirs []string
}

func NewLocalStore(dirs []string) *LocalStore {
	return &LocalStore{dirs: dirs}
}

// DiscoverSitePackages collects the site-packages directories an
// interpreter on this machine would consult: the active virtualenv
// first, then the user site, then the system installs.
func DiscoverSitePackages() []string {
	var patterns []string
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		patterns = append(patterns, filepath.Join(venv, "lib", "python3*", "site-packages"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		patterns = append(patterns, filepath.Join(home, ".local", "lib", "python3*", "site-packages"))
	}
	patterns = append(patterns,
		"/usr/local/lib/python3*/site-packages",
		"/usr/lib/python3*/site-packages",
		"/usr/lib/python3*/dist-packages",
	)

	var dirs []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		dirs = append(dirs, matches...)
	}
	return dirs
}

func (s *LocalStore) Lookup(ctx context.Context, name string) (*types.PackageInfo, error) {
	normalized := shared.NormalizePipName(name)
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
				continue
			}
			distName, _ := splitDistInfo(entry.Name())
			if shared.NormalizePipName(distName) != normalized {
				continue
			}
			info, err := s.readMetadata(filepath.Join(dir, entry.Name(), "METADATA"))
			if err != nil {
				log.Warn().Str("dist", entry.Name()).Err(err).Msg("skipping unreadable METADATA")
				continue
			}
			return info, nil
		}
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("package not installed locally: " + name)
}

// splitDistInfo splits "requests-2.31.0.dist-info" into name and
// version. The version is everything after the last dash before the
// suffix; project names may themselves contain dashes.
func splitDistInfo(dirName string) (name, version string) {
	base := strings.TrimSuffix(dirName, ".dist-info")
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return base, ""
	}
	return base[:idx], base[idx+1:]
}

func (s *LocalStore) readMetadata(path string) (*types.PackageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := textproto.NewReader(bufio.NewReader(file))
	header, err := reader.ReadMIMEHeader()
	// ReadMIMEHeader returns io.EOF alongside the headers when the body
	// is absent, which is normal for METADATA files without a
	// description payload.
	if err != nil && len(header) == 0 {
		return nil, err
	}

	info := &types.PackageInfo{
		Name:           header.Get("Name"),
		Version:        header.Get("Version"),
		Summary:        header.Get("Summary"),
		Author:         header.Get("Author"),
		License:        header.Get("License"),
		Homepage:       header.Get("Home-Page"),
		RequiresPython: header.Get("Requires-Python"),
		Source:         types.SourceLocal,
	}
	if keywords := header.Get("Keywords"); keywords != "" {
		for _, kw := range strings.FieldsFunc(keywords, func(r rune) bool { return r == ',' || r == ' ' }) {
			info.Keywords = append(info.Keywords, strings.TrimSpace(kw))
		}
	}
	for _, url := range header.Values("Project-Url") {
		label, target, found := strings.Cut(url, ",")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "source", "repository", "code":
			if info.Repository == "" {
				info.Repository = strings.TrimSpace(target)
			}
		}
	}
	for _, raw := range header.Values("Requires-Dist") {
		dep, err := core.ParseRequirement(raw, path, false)
		if err != nil {
			log.Warn().Str("file", path).Str("entry", raw).Err(err).Msg("skipping unparseable Requires-Dist")
			continue
		}
		info.Dependencies = append(info.Dependencies, dep)
	}
	return info, nil
}

var _ ports.MetadataStore = (*LocalStore)(nil)
