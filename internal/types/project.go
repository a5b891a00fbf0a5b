package types

// ProjectInfo is the aggregated view of one project's declared
// dependencies. DependencyFiles preserves discovery order, and
// Dependencies preserves per-file declaration order. Duplicate
// declarations across files are retained with their own SourceFile;
// callers decide how to treat repeats.
type ProjectInfo struct {
	ProjectPath     string       `json:"project_path" yaml:"project_path"`
	DependencyFiles []string     `json:"dependency_files" yaml:"dependency_files"`
	Dependencies    []Dependency `json:"dependencies" yaml:"dependencies"`
}
