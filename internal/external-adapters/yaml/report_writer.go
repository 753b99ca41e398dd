package yaml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

type yamlReport struct {
	DenyList    yamlReportList   `yaml:"denylist"`
	Succeeded   bool             `yaml:"succeeded"`
	Filtered    []yamlRefOut     `yaml:"filtered"`
	Unresolved  []yamlRefOut     `yaml:"unresolved"`
	Outcomes    []yamlOutcome    `yaml:"outcomes,omitempty"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics,omitempty"`
}

type yamlReportList struct {
	Path    string `yaml:"path"`
	Status  string `yaml:"status"`
	SHA256  string `yaml:"sha256,omitempty"`
	Entries int    `yaml:"entries"`
}

type yamlRefOut struct {
	Include  string            `yaml:"include"`
	FullPath string            `yaml:"full_path,omitempty"`
	HintPath string            `yaml:"hint_path,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

type yamlOutcome struct {
	Disposition string `yaml:"disposition"`
	Candidate   string `yaml:"candidate,omitempty"`
	Denied      string `yaml:"denied,omitempty"`
	Replacement string `yaml:"replacement,omitempty"`
	ViaHint     bool   `yaml:"via_hint,omitempty"`
}

type yamlDiagnostic struct {
	Severity string `yaml:"severity"`
	Code     string `yaml:"code,omitempty"`
	Message  string `yaml:"message"`
}

// ReportWriter persists filter reports as YAML
type ReportWriter struct{}

// NewReportWriter creates a new YAML report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Marshal renders a report as YAML
func (w *ReportWriter) Marshal(report *entities.Report) ([]byte, error) {
	out, err := yaml.Marshal(convertReport(report))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return out, nil
}

// WriteFile writes a report to filePath, creating parent directories
func (w *ReportWriter) WriteFile(filePath string, report *entities.Report) error {
	data, err := w.Marshal(report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", filePath, err)
	}
	return nil
}

func convertReport(r *entities.Report) yamlReport {
	out := yamlReport{
		DenyList: yamlReportList{
			Path:    r.DenyList.Path,
			Status:  r.DenyList.Status.String(),
			SHA256:  r.DenyList.SHA256,
			Entries: r.DenyList.Entries,
		},
		Succeeded:  r.Succeeded,
		Filtered:   convertRefs(r.Filtered),
		Unresolved: convertRefs(r.Unresolved),
	}

	for _, o := range r.Outcomes {
		yo := yamlOutcome{
			Disposition: o.Disposition.String(),
			Candidate:   o.CandidatePath,
			Denied:      o.DeniedPath,
		}
		if o.Substitution != nil {
			yo.Replacement = o.Substitution.NewPath
			yo.ViaHint = o.Substitution.ViaHint
		}
		out.Outcomes = append(out.Outcomes, yo)
	}

	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, yamlDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
		})
	}

	return out
}

func convertRefs(refs []entities.Reference) []yamlRefOut {
	out := make([]yamlRefOut, 0, len(refs))
	for _, ref := range refs {
		out = append(out, yamlRefOut{
			Include:  ref.ItemSpec,
			FullPath: ref.FullPath,
			HintPath: ref.HintPath,
			Metadata: ref.Metadata,
		})
	}
	return out
}
