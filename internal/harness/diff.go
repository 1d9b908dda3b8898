package harness

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the difference between want and got for failure messages.
//
// Single-line texts get an inline character diff, [-removed-]{+added+}.
// Multi-line texts are compared line by line and rendered with "-", "+"
// and " " prefixes.
func Diff(want, got string) string {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	if !strings.Contains(want, "\n") && !strings.Contains(got, "\n") {
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))
		var b strings.Builder
		for _, d := range diffs {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				b.WriteString("[-" + d.Text + "-]")
			case diffmatchpatch.DiffInsert:
				b.WriteString("{+" + d.Text + "+}")
			default:
				b.WriteString(d.Text)
			}
		}
		return b.String()
	}

	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
