// Package distribution holds discrete probability distributions over
// token-sequence types and computes information-theoretic measures on them.
package distribution

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/cognicore/nlpstat/pkg/nlpstat/freqlist"
	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
)

// A mapping whose probabilities sum to a value in [normLow, normHigh] is
// taken as already normalized.
const (
	normLow  = 0.999
	normHigh = 1.000
)

// Origin tells which constructor built a distribution.
type Origin int

const (
	OriginFrequencyList Origin = iota
	OriginMapping
)

// Outcome pairs a type with its probability.
type Outcome struct {
	Type freqlist.Type
	P    float64
}

// Distribution is an immutable snapshot; it does not follow later changes to
// the list it was built from. Rank caches lazily, so concurrent readers must
// call Rank once before sharing.
type Distribution struct {
	probs  map[string]*Outcome
	order  []string
	ranked []Outcome
	base   float64
	origin Origin
}

func validateBase(base float64) error {
	if base == 0 {
		return nil
	}
	if base < 0 || base == 1 || math.IsNaN(base) || math.IsInf(base, 0) {
		return fmt.Errorf("log base %v: %w", base, internalerr.ErrInvalidInput)
	}
	return nil
}

// FromFrequencyList builds p(type) = count/total. A base of 0 means the
// natural logarithm.
func FromFrequencyList(l *freqlist.List, base float64) (*Distribution, error) {
	if err := validateBase(base); err != nil {
		return nil, err
	}
	if l.Total() == 0 {
		return nil, fmt.Errorf("frequency list with zero total: %w", internalerr.ErrInvalidInput)
	}

	d := newDistribution(base, OriginFrequencyList)
	total := float64(l.Total())
	for _, e := range l.Items() {
		if e.Count < 0 {
			return nil, fmt.Errorf("type %q count %d: %w", e.Type.String(), e.Count, internalerr.ErrInvalidInput)
		}
		d.add(e.Type, float64(e.Count)/total)
	}
	return d, nil
}

// FromProbabilities builds a distribution from explicit probabilities. Unless
// they already sum to within [0.999, 1.000], every value is divided by the sum.
func FromProbabilities(outcomes []Outcome, base float64) (*Distribution, error) {
	if err := validateBase(base); err != nil {
		return nil, err
	}

	d := newDistribution(base, OriginMapping)
	var sum float64
	for _, o := range outcomes {
		if o.P < 0 || math.IsNaN(o.P) {
			return nil, fmt.Errorf("type %q probability %v: %w", o.Type.String(), o.P, internalerr.ErrInvalidInput)
		}
		if d.Contains(o.Type) {
			return nil, fmt.Errorf("type %q: %w", o.Type.String(), internalerr.ErrDuplicate)
		}
		d.add(o.Type, o.P)
		sum += o.P
	}
	if sum == 0 {
		return nil, fmt.Errorf("probabilities sum to zero: %w", internalerr.ErrInvalidInput)
	}

	if sum < normLow || sum > normHigh {
		for _, o := range d.probs {
			o.P /= sum
		}
	}
	return d, nil
}

func newDistribution(base float64, origin Origin) *Distribution {
	return &Distribution{
		probs:  make(map[string]*Outcome),
		base:   base,
		origin: origin,
	}
}

func (d *Distribution) add(t freqlist.Type, p float64) {
	k := t.Key()
	d.probs[k] = &Outcome{Type: t, P: p}
	d.order = append(d.order, k)
}

// Base returns the configured logarithm base; 0 means natural log.
func (d *Distribution) Base() float64 {
	return d.base
}

// Origin reports how the distribution was built.
func (d *Distribution) Origin() Origin {
	return d.origin
}

// Len is the size of the support.
func (d *Distribution) Len() int {
	return len(d.probs)
}

// Contains reports whether t has a probability.
func (d *Distribution) Contains(t freqlist.Type) bool {
	_, ok := d.probs[t.Key()]
	return ok
}

// Probability returns p(t).
func (d *Distribution) Probability(t freqlist.Type) (float64, error) {
	o, ok := d.probs[t.Key()]
	if !ok {
		return 0, fmt.Errorf("type %q: %w", t.String(), internalerr.ErrNotFound)
	}
	return o.P, nil
}

// log computes log_base(x). base 0 falls back to the distribution's base,
// then to the natural log.
func (d *Distribution) log(x, base float64) float64 {
	if base == 0 {
		base = d.base
	}
	if base == 0 {
		return math.Log(x)
	}
	return math.Log(x) / math.Log(base)
}

// Information returns -log(p(t)), the information content of t.
func (d *Distribution) Information(t freqlist.Type, base float64) (float64, error) {
	if err := validateBase(base); err != nil {
		return 0, err
	}
	p, err := d.Probability(t)
	if err != nil {
		return 0, err
	}
	return -d.log(p, base), nil
}

// Entropy returns the sum of p(x) * -log(p(x)). Zero-probability types
// contribute nothing.
func (d *Distribution) Entropy(base float64) (float64, error) {
	if err := validateBase(base); err != nil {
		return 0, err
	}
	var h float64
	for _, k := range d.order {
		p := d.probs[k].P
		if p > 0 {
			h += p * -d.log(p, base)
		}
	}
	return h, nil
}

// MaxEntropy returns log(N), the entropy of a uniform distribution over the
// same support.
func (d *Distribution) MaxEntropy(base float64) (float64, error) {
	if err := validateBase(base); err != nil {
		return 0, err
	}
	return d.log(float64(len(d.probs)), base), nil
}

// Items returns the outcomes in insertion order.
func (d *Distribution) Items() []Outcome {
	out := make([]Outcome, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, *d.probs[k])
	}
	return out
}

// Rank returns the outcomes by descending probability; ties keep insertion order.
func (d *Distribution) Rank() []Outcome {
	if d.ranked == nil {
		ranked := d.Items()
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].P > ranked[j].P
		})
		d.ranked = ranked
	}
	out := make([]Outcome, len(d.ranked))
	copy(out, d.ranked)
	return out
}

// Mode returns the most probable type.
func (d *Distribution) Mode() (freqlist.Type, error) {
	ranked := d.Rank()
	if len(ranked) == 0 {
		return nil, fmt.Errorf("mode of empty distribution: %w", internalerr.ErrNotFound)
	}
	return ranked[0].Type, nil
}

// Output writes one "type<delimiter>probability" line per outcome in rank order.
func (d *Distribution) Output(w io.Writer, delimiter string) error {
	for _, o := range d.Rank() {
		if _, err := fmt.Fprintf(w, "%s%s%g\n", o.Type, delimiter, o.P); err != nil {
			return err
		}
	}
	return nil
}
