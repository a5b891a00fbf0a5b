package ports

import "pypkg/internal/types"

// DependencyFilePort parses one dependency-declaration file format.
// FileName is the name the project analyzer probes for under the
// project root; discovery order is fixed by the order the ports are
// wired in.
type DependencyFilePort interface {
	FileName() string
	Parse(path string) ([]types.Dependency, error)
}
