package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScriptNotFoundError is returned when a script path doesn't exist.
type ScriptNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("proof script %q does not exist", e.Path)
}

// SuiteResult summarizes a run over several proof scripts.
type SuiteResult struct {
	TotalScripts int             `json:"total_scripts"`
	Passed       int             `json:"passed"`
	Failed       int             `json:"failed"`
	Failures     []ScriptFailure `json:"failures,omitempty"`
	Runs         []ScriptRun     `json:"-"`
}

// ScriptRun pairs a loaded script with its result.
type ScriptRun struct {
	Path   string
	Script *Script
	Result *Result
}

// ScriptFailure represents a failed proof script.
type ScriptFailure struct {
	Script string   `json:"script"`
	Path   string   `json:"path"`
	Errors []string `json:"errors"`
}

// Pass reports whether every script passed.
func (s *SuiteResult) Pass() bool {
	return s.Failed == 0
}

// FindScripts returns the proof scripts under path. A file path is returned
// as is; a directory yields its .yaml, .yml and .cue files in name order.
func FindScripts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &ScriptNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".cue":
			scripts = append(scripts, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(scripts)
	return scripts, nil
}

// RunSuite loads and runs every script under path. See FindScripts.
func RunSuite(path string, opts ...Option) (*SuiteResult, error) {
	paths, err := FindScripts(path)
	if err != nil {
		return nil, err
	}
	return RunScripts(paths, opts...), nil
}

// RunScripts loads and runs the given scripts in order.
//
// For each script:
// 1. Load it (YAML or CUE)
// 2. Run it via harness.Run
// 3. Collect pass/fail
//
// Load and run failures are recorded as failed scripts.
func RunScripts(paths []string, opts ...Option) *SuiteResult {
	suite := &SuiteResult{}
	for _, p := range paths {
		suite.TotalScripts++

		script, err := LoadScript(p)
		if err != nil {
			suite.fail(filepath.Base(p), p, fmt.Sprintf("failed to load script: %v", err))
			continue
		}

		result, err := Run(script, opts...)
		if err != nil {
			suite.fail(script.Name, p, fmt.Sprintf("script execution failed: %v", err))
			continue
		}
		suite.Runs = append(suite.Runs, ScriptRun{Path: p, Script: script, Result: result})

		if !result.Pass {
			suite.fail(script.Name, p, result.Failures()...)
			continue
		}
		suite.Passed++
	}
	return suite
}

func (s *SuiteResult) fail(name, path string, msgs ...string) {
	s.Failed++
	s.Failures = append(s.Failures, ScriptFailure{Script: name, Path: path, Errors: msgs})
}
