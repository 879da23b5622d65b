package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenario(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()
	return Run(context.Background(), scenario)
}

func TestRunWithGolden_Scenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestSnapshot_Format(t *testing.T) {
	result := NewResult()
	result.AddStep(StepResult{Step: 1, Op: OpAddClient, Outcome: OutcomeOK, ID: 1})
	result.Exports["clients"] = "id,name,email,phone,note\n1,Ana,,,\n"
	result.Exports["products"] = "id,name,price,stock,note\n"
	result.Exports["sales"] = "id,client_id,client,product_id,product,quantity,unit_price,total,created_at\n"

	want := "scenario: tiny\n\nsteps:\n  1 add_client ok id=1\n" +
		"\nclients.csv:\nid,name,email,phone,note\n1,Ana,,,\n" +
		"\nproducts.csv:\nid,name,price,stock,note\n" +
		"\nsales.csv:\nid,client_id,client,product_id,product,quantity,unit_price,total,created_at\n"
	assert.Equal(t, want, string(Snapshot("tiny", result)))
}
