package types

// Conflict records one existing declaration that the candidate cannot
// coexist with.
type Conflict struct {
	Existing Dependency `json:"existing_dependency" yaml:"existing_dependency"`
	Reason   string     `json:"reason" yaml:"reason"`
}

// CompatibilityReport answers whether adding Package under VersionSpec
// conflicts with a project's direct declarations. Unknown is set when
// one side's data could not be obtained; the report then still carries
// whatever conflicts were computable.
type CompatibilityReport struct {
	Package     string     `json:"package" yaml:"package"`
	VersionSpec string     `json:"version_spec,omitempty" yaml:"version_spec,omitempty"`
	Compatible  bool       `json:"compatible" yaml:"compatible"`
	Conflicts   []Conflict `json:"conflicts" yaml:"conflicts"`
	Unknown     bool       `json:"unknown" yaml:"unknown"`
	Notes       []string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type PackageSearchResult struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
}
