package ports

import "io"

// ReportWriterPort renders an operation result in a machine-readable
// format ("json" or "yaml").
type ReportWriterPort interface {
	Write(w io.Writer, format string, v any) error
}
