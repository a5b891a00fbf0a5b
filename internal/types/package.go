package types

import "time"

// PackageInfo is the normalized metadata record for one package at one
// version, regardless of which store produced it.
type PackageInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`

	// Summary is the one-line description; Description carries the full
	// README body when the store provides it.
	Summary                string `json:"description" yaml:"description"`
	Description            string `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	DescriptionContentType string `json:"long_description_content_type,omitempty" yaml:"long_description_content_type,omitempty"`

	Author     string   `json:"author,omitempty" yaml:"author,omitempty"`
	License    string   `json:"license,omitempty" yaml:"license,omitempty"`
	Homepage   string   `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Repository string   `json:"repository,omitempty" yaml:"repository,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	Dependencies   []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	RequiresPython string       `json:"python_requires,omitempty" yaml:"python_requires,omitempty"`

	LastUpdated *time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	Source      SourceKind `json:"source" yaml:"source"`
}

// Release is one published version of a package on the index. A release
// counts as yanked when every distribution file for it is yanked.
type Release struct {
	Version string `json:"version" yaml:"version"`
	Yanked  bool   `json:"yanked" yaml:"yanked"`
}

type VersionInfo struct {
	Name         string     `json:"name" yaml:"name"`
	Version      string     `json:"version" yaml:"version"`
	IsPrerelease bool       `json:"is_prerelease" yaml:"is_prerelease"`
	Source       SourceKind `json:"source" yaml:"source"`
}
