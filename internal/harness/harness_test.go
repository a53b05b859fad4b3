package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed, "failures: %v", result.Failures)
		})
	}
}

func TestRun_ReportsMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expectation disagrees with the observed signals",
		Resources: []ResourceStep{
			{PublicID: "patient", Type: "Patient"},
			{PublicID: "study", Type: "Study", Parent: "patient"},
		},
		Delete: "study",
		Expect: Expectation{
			Deleted: []string{"study", "series"},
			Files:   []string{"blob"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	// Three independent mismatches: deleted set, file set, missing
	// ancestor expectation.
	assert.Len(t, result.Failures, 3)
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "delete_study_cascade.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Deleted, second.Deleted)
	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Ancestors, second.Ancestors)
}
