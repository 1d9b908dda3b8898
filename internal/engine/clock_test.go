package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/srl/internal/navi"
)

func TestClock_Tick(t *testing.T) {
	testCases := []struct {
		name string
		last int64
		want []int64
	}{
		{"fresh", 0, []int64{1, 2, 3}},
		{"resumed", 41, []int64{42, 43}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClock(tc.last)
			assert.Equal(t, tc.last, c.Last())

			var got []int64
			for range tc.want {
				got = append(got, c.Tick())
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want[len(tc.want)-1], c.Last(), "Last reads without ticking")
		})
	}
}

func TestClock_SharedAcrossDatabases(t *testing.T) {
	clock := NewClock(0)

	first, err := FromString("p q.", WithClock(clock), WithLogger(quietLogger()))
	require.NoError(t, err)
	second, err := FromString("r s.", WithClock(clock), WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = first.AddTruthWrap(navi.Handle{Rule: 1})
	require.NoError(t, err)

	var seqs []int64
	for _, db := range []*Database{first, second} {
		for i := 0; i < db.Len(); i++ {
			d, err := db.Derivation(i)
			require.NoError(t, err)
			seqs = append(seqs, d.Seq)
		}
	}
	assert.Equal(t, []int64{1, 2, 5, 3, 4}, seqs)
	assert.Same(t, clock, second.Clock())
	assert.Equal(t, int64(5), clock.Last())
}
