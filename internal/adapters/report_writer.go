package adapters

import (
	"encoding/json"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pypkg/internal/ports"
)

// ReportWriter renders command results as JSON or YAML.
type ReportWriter struct{}

func NewReportWriter() ReportWriter {
	return ReportWriter{}
}

func (w ReportWriter) Write(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode report as JSON").
				WithCause(err)
		}
		encoded = append(encoded, '\n')
		_, err = out.Write(encoded)
		return err
	case "yaml":
		encoded, err := yaml.Marshal(v)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode report as YAML").
				WithCause(err)
		}
		_, err = out.Write(encoded)
		return err
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + format)
	}
}

var _ ports.ReportWriterPort = ReportWriter{}
