// Package testutil provides shared test helpers for Vela Go tests.
package testutil

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "rewrite golden files with the actual output")

// Scenario represents a CLI test scenario loaded from a scenario.json file.
// Cmd is the argument list after the program name; it runs with the
// scenario directory as the working directory.
type Scenario struct {
	Cmd    []string       `json:"cmd"`
	Stdin  string         `json:"stdin,omitempty"`
	Meta   *ScenarioMeta  `json:"meta,omitempty"`
	Expect ExpectedResult `json:"expect"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// Empty fields are not checked.
type ExpectedResult struct {
	ExitCode       int             `json:"exitCode"`
	StdoutText     string          `json:"stdoutText,omitempty"`
	StdoutContains []string        `json:"stdoutContains,omitempty"`
	StdoutGolden   string          `json:"stdoutGolden,omitempty"`
	StderrText     string          `json:"stderrText,omitempty"`
	StderrContains []string        `json:"stderrContains,omitempty"`
	StderrJSON     json.RawMessage `json:"stderrJson,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.json.
func LoadScenario(dir string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scenario.json"))
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.json")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	return dirs, nil
}

// AssertGolden compares got with the contents of path. With -update the file
// is rewritten instead.
func AssertGolden(t testing.TB, path, got string) {
	t.Helper()
	if *update {
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err, "read golden file")
	require.Equal(t, string(want), got, "golden file %s", path)
}

// Chdir switches the working directory for the rest of the test.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}
