package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: minimal
description: smallest valid scenario
resources:
  - publicId: patient
    type: Patient
delete: patient
expect:
  deleted: [patient]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", scenario.Name)
	assert.Len(t, scenario.Resources, 1)
	assert.Equal(t, "patient", scenario.Delete)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelled key
resources:
  - publicId: patient
    type: Patient
delete: patient
expectation:
  deleted: [patient]
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario YAML")
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing_delete",
			content: `
name: s
description: d
resources:
  - publicId: patient
    type: Patient
`,
			wantErr: "delete target is required",
		},
		{
			name: "unknown_type",
			content: `
name: s
description: d
resources:
  - publicId: patient
    type: Person
delete: patient
`,
			wantErr: "unknown resource type",
		},
		{
			name: "forward_parent_reference",
			content: `
name: s
description: d
resources:
  - publicId: study
    type: Study
    parent: patient
  - publicId: patient
    type: Patient
delete: study
`,
			wantErr: "not declared before use",
		},
		{
			name: "delete_undeclared",
			content: `
name: s
description: d
resources:
  - publicId: patient
    type: Patient
delete: ghost
`,
			wantErr: "not a declared resource",
		},
		{
			name: "bad_content_type",
			content: `
name: s
description: d
resources:
  - publicId: patient
    type: Patient
    attachments:
      - uuid: blob
        contentType: Pixels
delete: patient
`,
			wantErr: "unknown content type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
