package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Error codes used in CLI responses.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeSchema   = "E201" // Scenario does not match the schema
	ErrCodeScenario = "E202" // Scenario breaks a rule (triggers, builtins, level)
	ErrCodeFailed   = "E210" // Scenario expectations failed
)

// LoadError is a problem locating scenario files.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FindScenarioFiles expands paths into scenario files. Files are taken as
// given; directories are walked for .yaml and .yml files, skipping any
// "golden" directory. filter is a glob matched against the file name
// without extension. The result is sorted and free of duplicates.
func FindScenarioFiles(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("invalid filter pattern: %v", err)}
		}
	}

	var files []string
	keep := func(path string) {
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if ok, _ := filepath.Match(filter, name); !ok {
				return
			}
		}
		files = append(files, path)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "path not found", Path: p}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err), Path: p}
		}

		if !info.IsDir() {
			keep(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "golden" && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			if isScenarioFile(path) {
				keep(path)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Path: p}
		}
	}

	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no scenario files found in %s", strings.Join(paths, ", "))}
	}
	return files, nil
}

func isScenarioFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// goldenFilePath returns <dir>/golden/<name>.golden for a scenario file.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}
