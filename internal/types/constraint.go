package types

// Constraint is a single operator clause from a version specifier,
// e.g. ">=2.0" or "!=1.4.*". A full specifier is the intersection of
// all its clauses.
type Constraint struct {
	Op      ConstraintOp `json:"op" yaml:"op"`
	Version string       `json:"version" yaml:"version"`
}

// Dependency is one normalized dependency declaration from a project
// file or a package's metadata.
//
// NormalizedName follows PEP 503: lowercase with runs of "-", "_" and
// "." collapsed to a single hyphen. Cross-file comparisons are always
// exact matches on NormalizedName, never fuzzy.
type Dependency struct {
	Name           string       `json:"name" yaml:"name"`
	NormalizedName string       `json:"normalized_name" yaml:"normalized_name"`
	VersionSpec    string       `json:"version_spec" yaml:"version_spec"`
	Constraints    []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Extras         []string     `json:"extras,omitempty" yaml:"extras,omitempty"`

	// Marker holds an environment marker verbatim ("; python_version <
	// '3.11'"). Markers are captured, never evaluated.
	Marker     string `json:"marker,omitempty" yaml:"marker,omitempty"`
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	IsDev      bool   `json:"is_dev_dependency" yaml:"is_dev_dependency"`
}
