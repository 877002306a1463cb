package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var Formats = []string{FormatText, FormatJSON, FormatYAML}

func WriteJSON(w io.Writer, a *model.Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document(a))
}

func WriteYAML(w io.Writer, a *model.Analysis) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(document(a)); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders a in the named format.
func Write(w io.Writer, format string, a *model.Analysis) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return WriteText(w, a)
	case FormatJSON:
		return WriteJSON(w, a)
	case FormatYAML:
		return WriteYAML(w, a)
	default:
		return fmt.Errorf("format %q: %w", format, common.ErrorInvalidArgs)
	}
}

type analysisDocument struct {
	model.Analysis `yaml:",inline"`
	SummaryLine    string `json:"summary_line" yaml:"summary_line"`
}

func document(a *model.Analysis) *analysisDocument {
	return &analysisDocument{Analysis: *a, SummaryLine: a.Summary.String()}
}
