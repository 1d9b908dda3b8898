package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/srl/internal/term"
)

func TestMustParseRules(t *testing.T) {
	rules := MustParseRules(t, "= x y. {0 (p 0)}.")
	assert.Equal(t, []string{"= x y.", "{0 (p 0)}."}, RenderAll(rules))
}

func TestMustParseTerm(t *testing.T) {
	assert.Equal(t, term.Truth(), MustParseTerm(t, "'true'"))
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	logger.Info("dropped")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
