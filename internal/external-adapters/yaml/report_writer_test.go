package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

func sampleReport() *entities.Report {
	denied := entities.Reference{
		ItemSpec: "/safe/bad.dll",
		FullPath: "/safe/bad.dll",
		Metadata: map[string]string{entities.MetadataDeniedPath: "/bin/bad.dll"},
	}
	return &entities.Report{
		DenyList: entities.ReportDenyList{
			Path:    "/lists/deniedAssembliesList.txt",
			Status:  entities.ListLoaded,
			SHA256:  "abc",
			Entries: 2,
		},
		Filtered: []entities.Reference{denied, {ItemSpec: "good.dll", FullPath: "/bin/good.dll"}},
		Outcomes: []entities.Outcome{
			{
				Disposition:   entities.DeniedFixed,
				CandidatePath: "/bin/bad.dll",
				DeniedPath:    "/bin/bad.dll",
				Substitution:  &entities.Substitution{NewPath: "/safe/bad.dll"},
			},
			{Disposition: entities.Allowed, CandidatePath: "/bin/good.dll"},
		},
		Diagnostics: []entities.Diagnostic{
			{Severity: entities.SeverityLow, Message: "Changed the denied assembly reference path"},
		},
		Succeeded: true,
	}
}

func TestReportWriter_Marshal(t *testing.T) {
	data, err := NewReportWriter().Marshal(sampleReport())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}

	list, ok := decoded["denylist"].(map[string]interface{})
	if !ok {
		t.Fatalf("denylist section missing: %s", data)
	}
	if list["status"] != "loaded" {
		t.Errorf("denylist.status = %v, want loaded", list["status"])
	}
	if decoded["succeeded"] != true {
		t.Errorf("succeeded = %v, want true", decoded["succeeded"])
	}

	text := string(data)
	for _, want := range []string{
		"disposition: denied-fixed",
		"replacement: /safe/bad.dll",
		"DeniedAssemblyPath: /bin/bad.dll",
		"severity: low",
		"unresolved: []",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestReportWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.yml")

	if err := NewReportWriter().WriteFile(path, sampleReport()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "entries: 2") {
		t.Errorf("unexpected report contents:\n%s", data)
	}
}
