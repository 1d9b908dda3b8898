package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/srl/internal/engine"
	"github.com/roach88/srl/internal/syntax"
)

// LoadError represents an error that occurred while loading a rules file.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ExitCode maps the load error to a CLI exit code. A missing file is a
// command error; a file that does not parse is a proof failure.
func (e *LoadError) ExitCode() int {
	if e.Code == ErrCodeNotFound {
		return ExitCommandError
	}
	return ExitFailure
}

// LoadDatabase reads a rules file into a fresh database.
func LoadDatabase(path string, logger *slog.Logger) (*engine.Database, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	db, err := engine.FromFile(path, engine.WithLogger(logger))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("cannot load %s", path), Err: err}
	}
	return db, nil
}

// loadOrFail loads a rules file and reports a load failure through f.
func loadOrFail(f *OutputFormatter, path string, logger *slog.Logger) (*engine.Database, error) {
	db, err := LoadDatabase(path, logger)
	if err == nil {
		return db, nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return nil, f.Fail(le.ExitCode(), le.Code, le.Message, le.Err)
	}
	return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "cannot load rules", err)
}

// RuleInfo describes one database rule in JSON output.
type RuleInfo struct {
	Index  int      `json:"index"`
	Rule   string   `json:"rule"`
	Hash   string   `json:"hash"`
	Law    string   `json:"law"`
	Seq    int64    `json:"seq"`
	Inputs []string `json:"inputs,omitempty"`
}

// ruleInfo builds the RuleInfo for rule i of db.
func ruleInfo(db *engine.Database, i int) (RuleInfo, error) {
	d, err := db.Derivation(i)
	if err != nil {
		return RuleInfo{}, err
	}
	info := RuleInfo{
		Index: i,
		Rule:  syntax.RenderRule(db.Rule(i)),
		Hash:  d.Hash,
		Law:   d.Law,
		Seq:   d.Seq,
	}
	for _, h := range d.Inputs {
		info.Inputs = append(info.Inputs, h.String())
	}
	return info, nil
}
