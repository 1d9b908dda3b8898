package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/srl/internal/engine"
	"github.com/roach88/srl/internal/navi"
)

// LawDelete is a harness-only step that deletes a derived rule instead of
// applying a law. It takes one handle naming the rule.
const LawDelete = "delete"

// Script is a proof script: a rule source plus the inference steps to replay
// on top of it.
type Script struct {
	// Name uniquely identifies this script. Golden files are keyed by it.
	Name string `yaml:"name" json:"name"`

	// Description explains what the proof shows.
	Description string `yaml:"description" json:"description"`

	// Rules is the rule source, in surface syntax.
	Rules string `yaml:"rules,omitempty" json:"rules,omitempty"`

	// RulesFile names a rules file, relative to the script location.
	// Mutually exclusive with Rules.
	RulesFile string `yaml:"rules_file,omitempty" json:"rules_file,omitempty"`

	// Session is an optional fixed session id for deterministic logs.
	Session string `yaml:"session,omitempty" json:"session,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Final is the expected rule count after all steps, identity rule
	// included.
	Final *int `yaml:"final,omitempty" json:"final,omitempty"`

	// Assertions validate the final database.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Step is one law application.
type Step struct {
	// Law is the law name (see engine.Laws) or "delete".
	Law string `yaml:"law" json:"law"`

	// Handles are handle strings such as "2/0/1".
	Handles []string `yaml:"handles" json:"handles"`

	// Term is the term argument of scope-insertion and case-wrap.
	Term string `yaml:"term,omitempty" json:"term,omitempty"`

	// Name is the declared name of a declaration.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Paths are the relative paths of scope-creation.
	Paths [][]int `yaml:"paths,omitempty" json:"paths,omitempty"`

	// Expect is the expected derived rule in rule form, e.g. "{0 (p y)}.".
	Expect string `yaml:"expect,omitempty" json:"expect,omitempty"`

	// Error makes the step a negative test: the law must fail with an
	// error containing this text.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

var scriptFields = map[string]bool{
	"name": true, "description": true, "rules": true, "rules_file": true,
	"session": true, "steps": true, "final": true, "assertions": true,
}

// LoadScript reads a proof script. Files ending in .cue are compiled with
// CUE; anything else is parsed as YAML. rules_file is resolved relative to
// the script's directory.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var script *Script
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		script, err = ParseScriptCUE(data, path)
	} else {
		script, err = ParseScriptYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if script.RulesFile != "" {
		rulesPath := script.RulesFile
		if !filepath.IsAbs(rulesPath) {
			rulesPath = filepath.Join(filepath.Dir(path), rulesPath)
		}
		src, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules file: %w", err)
		}
		script.Rules = string(src)
		script.RulesFile = rulesPath
	}
	return script, nil
}

// ParseScriptYAML parses a proof script from YAML. Unknown fields are
// rejected.
func ParseScriptYAML(data []byte) (*Script, error) {
	var script Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScript(&script); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &script, nil
}

// ParseScriptCUE compiles a proof script written in CUE. The top-level
// struct carries the same fields as the YAML form.
func ParseScriptCUE(data []byte, filename string) (*Script, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("failed to read CUE fields: %w", err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !scriptFields[label] {
			return nil, fmt.Errorf("failed to decode CUE: field %s not found in type harness.Script", label)
		}
	}

	var script Script
	if err := v.Decode(&script); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	if err := validateScript(&script); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &script, nil
}

// validateScript checks that required fields are present and valid.
func validateScript(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Rules != "" && s.RulesFile != "" {
		return fmt.Errorf("rules and rules_file are mutually exclusive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.Final != nil && *s.Final < 1 {
		return fmt.Errorf("final must be at least 1 (the identity rule)")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	if s.Law == "" {
		return fmt.Errorf("steps[%d]: law is required", index)
	}
	if s.Expect != "" && s.Error != "" {
		return fmt.Errorf("steps[%d]: expect and error are mutually exclusive", index)
	}
	for j, h := range s.Handles {
		if _, err := navi.ParseHandle(h); err != nil {
			return fmt.Errorf("steps[%d].handles[%d]: %w", index, j, err)
		}
	}

	if s.Law == LawDelete {
		if len(s.Handles) != 1 {
			return fmt.Errorf("steps[%d]: delete takes exactly one handle", index)
		}
		return nil
	}

	info, ok := engine.LookupLaw(s.Law)
	if !ok {
		return fmt.Errorf("steps[%d]: unknown law %q", index, s.Law)
	}
	if len(s.Handles) != info.Handles {
		return fmt.Errorf("steps[%d]: law %s takes %d handles, got %d", index, s.Law, info.Handles, len(s.Handles))
	}
	if info.NeedsTerm && s.Term == "" {
		return fmt.Errorf("steps[%d]: law %s needs a term", index, s.Law)
	}
	if info.NeedsName && s.Name == "" {
		return fmt.Errorf("steps[%d]: law %s needs a name", index, s.Law)
	}
	return nil
}
