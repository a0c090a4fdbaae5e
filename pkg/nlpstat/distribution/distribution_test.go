package distribution

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nlpstat/pkg/nlpstat/freqlist"
	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
)

func words(ws ...string) []freqlist.Type {
	out := make([]freqlist.Type, len(ws))
	for i, w := range ws {
		out[i] = freqlist.Type{w}
	}
	return out
}

func TestFromFrequencyList(t *testing.T) {
	l := freqlist.FromTokens([]string{"a", "a", "b", "c"}, true)
	d, err := FromFrequencyList(l, 0)
	require.NoError(t, err)

	assert.Equal(t, OriginFrequencyList, d.Origin())
	assert.Equal(t, 3, d.Len())

	p, err := d.Probability(freqlist.Type{"a"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	mode, err := d.Mode()
	require.NoError(t, err)
	assert.Equal(t, freqlist.Type{"a"}, mode)
}

func TestSnapshotIsDetached(t *testing.T) {
	l := freqlist.FromTokens([]string{"a", "b"}, true)
	d, err := FromFrequencyList(l, 0)
	require.NoError(t, err)

	l.Count(freqlist.Type{"a"}, 10)
	l.Count(freqlist.Type{"z"}, 1)

	p, _ := d.Probability(freqlist.Type{"a"})
	assert.InDelta(t, 0.5, p, 1e-12)
	assert.False(t, d.Contains(freqlist.Type{"z"}))
}

func TestUniformEntropyIsMaximal(t *testing.T) {
	l := freqlist.FromTokens([]string{"w", "x", "y", "z", "w", "x", "y", "z"}, true)

	for _, base := range []float64{0, 2, 10} {
		d, err := FromFrequencyList(l, base)
		require.NoError(t, err)

		h, err := d.Entropy(0)
		require.NoError(t, err)
		hmax, err := d.MaxEntropy(0)
		require.NoError(t, err)
		assert.InDelta(t, hmax, h, 1e-12, "base %v", base)
	}

	d, _ := FromFrequencyList(l, 2)
	h, _ := d.Entropy(0)
	assert.InDelta(t, 2.0, h, 1e-12)
}

func TestSkewedEntropyBelowMax(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"a"}, 0.7},
		{freqlist.Type{"b"}, 0.2},
		{freqlist.Type{"c"}, 0.1},
	}, 2)
	require.NoError(t, err)

	h, _ := d.Entropy(0)
	hmax, _ := d.MaxEntropy(0)
	assert.Less(t, h, hmax)

	expected := -(0.7*math.Log2(0.7) + 0.2*math.Log2(0.2) + 0.1*math.Log2(0.1))
	assert.InDelta(t, expected, h, 1e-12)

	nats, _ := d.Entropy(math.E)
	assert.InDelta(t, expected*math.Ln2, nats, 1e-12)
}

func TestInformation(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"heads"}, 0.5},
		{freqlist.Type{"tails"}, 0.25},
		{freqlist.Type{"edge"}, 0.25},
	}, 0)
	require.NoError(t, err)

	bits, err := d.Information(freqlist.Type{"tails"}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bits, 1e-12)

	nats, err := d.Information(freqlist.Type{"heads"}, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, nats, 1e-12)

	_, err = d.Information(freqlist.Type{"missing"}, 0)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
}

func TestInstanceBaseUsedByDefault(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"a"}, 0.1},
		{freqlist.Type{"b"}, 0.9},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, d.Base())

	info, err := d.Information(freqlist.Type{"a"}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, info, 1e-12)
}

func TestNormalization(t *testing.T) {
	cases := []struct {
		name   string
		probs  []float64
		expect []float64
	}{
		{"already normalized", []float64{0.5, 0.5}, []float64{0.5, 0.5}},
		{"within tolerance", []float64{0.4995, 0.5}, []float64{0.4995, 0.5}},
		{"below tolerance", []float64{1, 1, 2}, []float64{0.25, 0.25, 0.5}},
		{"above tolerance", []float64{0.6, 0.6}, []float64{0.5, 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			types := words("a", "b", "c")[:len(tc.probs)]
			outcomes := make([]Outcome, len(tc.probs))
			for i, p := range tc.probs {
				outcomes[i] = Outcome{Type: types[i], P: p}
			}

			d, err := FromProbabilities(outcomes, 0)
			require.NoError(t, err)
			assert.Equal(t, OriginMapping, d.Origin())

			for i, typ := range types {
				p, err := d.Probability(typ)
				require.NoError(t, err)
				assert.InDelta(t, tc.expect[i], p, 1e-12)
			}
		})
	}
}

func TestFromProbabilitiesRejects(t *testing.T) {
	_, err := FromProbabilities([]Outcome{{freqlist.Type{"a"}, -0.1}, {freqlist.Type{"b"}, 1.1}}, 0)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = FromProbabilities([]Outcome{{freqlist.Type{"a"}, 0.5}, {freqlist.Type{"a"}, 0.5}}, 0)
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))

	_, err = FromProbabilities(nil, 0)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = FromProbabilities([]Outcome{{freqlist.Type{"a"}, 1}}, 1)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = FromFrequencyList(freqlist.New(true), 0)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestFromFrequencyListRejectsNegativeCounts(t *testing.T) {
	l := freqlist.New(true)
	l.Count(freqlist.Type{"a"}, 5)
	l.Count(freqlist.Type{"b"}, -2)

	_, err := FromFrequencyList(l, 0)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestDistinctTypesWithSeparatorBytes(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"a\x1f", "b"}, 0.5},
		{freqlist.Type{"a", "\x1fb"}, 0.5},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestRank(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"rare"}, 0.1},
		{freqlist.Type{"common"}, 0.6},
		{freqlist.Type{"tie1"}, 0.15},
		{freqlist.Type{"tie2"}, 0.15},
	}, 0)
	require.NoError(t, err)

	first := d.Rank()
	assert.Equal(t, first, d.Rank())

	var order []string
	for _, o := range first {
		order = append(order, o.Type.String())
	}
	assert.Equal(t, []string{"common", "tie1", "tie2", "rare"}, order)

	assert.Len(t, d.Items(), 4)
	assert.Equal(t, "rare", d.Items()[0].Type.String())
}

func TestOutput(t *testing.T) {
	d, err := FromProbabilities([]Outcome{
		{freqlist.Type{"new", "york"}, 0.25},
		{freqlist.Type{"paris"}, 0.75},
	}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Output(&buf, "\t"))
	assert.Equal(t, "paris\t0.75\nnew york\t0.25\n", buf.String())
}
