package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.yaml", greetScenario)
	b := writeScenario(t, dir, "sub/b.yml", greetScenario)
	writeScenario(t, dir, "notes.txt", "not a scenario")
	writeScenario(t, dir, "golden/c.yaml", greetScenario)

	files, err := FindScenarioFiles([]string{dir}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestFindScenarioFiles_ExplicitFilesAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.yaml", greetScenario)

	files, err := FindScenarioFiles([]string{a, dir, a}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestFindScenarioFiles_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "price-tie.yaml", greetScenario)
	greet := writeScenario(t, dir, "greet.yaml", greetScenario)

	files, err := FindScenarioFiles([]string{dir}, "gr*")
	require.NoError(t, err)
	assert.Equal(t, []string{greet}, files)

	_, err = FindScenarioFiles([]string{dir}, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFindScenarioFiles_Errors(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		wantCode string
	}{
		{"missing path", []string{filepath.Join(t.TempDir(), "nope")}, ErrCodeNotFound},
		{"no files", []string{t.TempDir()}, ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindScenarioFiles(tt.paths, "")
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "got %v", err)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "greet.golden"),
		goldenFilePath(filepath.Join("scenarios", "greet.yaml")))
}
