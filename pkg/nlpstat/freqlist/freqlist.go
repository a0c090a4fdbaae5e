// Package freqlist counts token-sequence types and ranks them by frequency.
package freqlist

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
)

// Type is a counted token sequence. Single tokens are length-1 types.
type Type []string

// String joins the tokens with single spaces.
func (t Type) String() string {
	return strings.Join(t, " ")
}

// Key returns a map key for t. Every token is length-prefixed, so keys of
// distinct sequences never collide whatever bytes the tokens contain.
func (t Type) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(t)))
	for _, tok := range t {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(tok)))
		b.WriteByte(':')
		b.WriteString(tok)
	}
	return b.String()
}

// Entry pairs a type with its count.
type Entry struct {
	Type  Type
	Count int64
}

type counter struct {
	typ   Type
	count int64
}

// List is a frequency list. Mutations must be serialized by the caller;
// read-only methods may run concurrently once counting is done.
type List struct {
	counts        map[string]*counter
	order         []string // keys in first-seen order
	ranked        []Entry  // nil when stale
	total         int64
	caseSensitive bool
}

// New creates an empty frequency list.
func New(caseSensitive bool) *List {
	return &List{
		counts:        make(map[string]*counter),
		caseSensitive: caseSensitive,
	}
}

// FromTokens creates a list seeded with one count per token.
func FromTokens(tokens []string, caseSensitive bool) *List {
	l := New(caseSensitive)
	l.Append(tokens)
	return l
}

// CaseSensitive reports whether types are counted as given.
func (l *List) CaseSensitive() bool {
	return l.caseSensitive
}

// normalize copies t, lower-casing it in case-insensitive mode. A Caser
// keeps state, so each call gets its own.
func (l *List) normalize(t Type) Type {
	out := make(Type, len(t))
	if l.caseSensitive {
		copy(out, t)
		return out
	}
	lower := cases.Lower(language.Und)
	for i, tok := range t {
		out[i] = lower.String(tok)
	}
	return out
}

// Count adds amount to the count of t.
func (l *List) Count(t Type, amount int64) {
	t = l.normalize(t)
	k := t.Key()
	c, ok := l.counts[k]
	if !ok {
		c = &counter{typ: t}
		l.counts[k] = c
		l.order = append(l.order, k)
	}
	c.count += amount
	l.total += amount
	l.ranked = nil
}

// Append counts each token once as a unary type.
func (l *List) Append(tokens []string) {
	for _, tok := range tokens {
		l.Count(Type{tok}, 1)
	}
}

// SetOnce records value for a type that has not been counted yet.
func (l *List) SetOnce(t Type, value int64) error {
	if l.Contains(t) {
		return fmt.Errorf("type %q: %w", t.String(), internalerr.ErrDuplicate)
	}
	l.Count(t, value)
	return nil
}

func (l *List) lookup(t Type) (*counter, error) {
	c, ok := l.counts[l.normalize(t).Key()]
	if !ok {
		return nil, fmt.Errorf("type %q: %w", t.String(), internalerr.ErrNotFound)
	}
	return c, nil
}

// Get returns the count of t.
func (l *List) Get(t Type) (int64, error) {
	c, err := l.lookup(t)
	if err != nil {
		return 0, err
	}
	return c.count, nil
}

// Contains reports whether t has been counted.
func (l *List) Contains(t Type) bool {
	_, ok := l.counts[l.normalize(t).Key()]
	return ok
}

// Total is the sum of all counts.
func (l *List) Total() int64 {
	return l.total
}

// Len is the number of distinct types.
func (l *List) Len() int {
	return len(l.counts)
}

// Probability returns the relative frequency of t.
func (l *List) Probability(t Type) (float64, error) {
	c, err := l.lookup(t)
	if err != nil {
		return 0, err
	}
	return float64(c.count) / float64(l.total), nil
}

// Items returns the entries in first-seen order.
func (l *List) Items() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, k := range l.order {
		c := l.counts[k]
		out = append(out, Entry{Type: c.typ, Count: c.count})
	}
	return out
}

// Rank returns the entries by descending count; equal counts keep first-seen
// order. The ranking is cached until the next mutation.
func (l *List) Rank() []Entry {
	if l.ranked == nil {
		ranked := l.Items()
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Count > ranked[j].Count
		})
		l.ranked = ranked
	}
	out := make([]Entry, len(l.ranked))
	copy(out, l.ranked)
	return out
}

// Mode returns the most frequent type.
func (l *List) Mode() (Type, error) {
	ranked := l.Rank()
	if len(ranked) == 0 {
		return nil, fmt.Errorf("mode of empty list: %w", internalerr.ErrNotFound)
	}
	return ranked[0].Type, nil
}

// TypeTokenRatio is the number of distinct types divided by the total count.
func (l *List) TypeTokenRatio() float64 {
	return float64(len(l.counts)) / float64(l.total)
}

// Equal reports whether both lists hold the same total and identical counts.
func (l *List) Equal(other *List) bool {
	if l.total != other.total || len(l.counts) != len(other.counts) {
		return false
	}
	for k, c := range l.counts {
		oc, ok := other.counts[k]
		if !ok || oc.count != c.count {
			return false
		}
	}
	return true
}

// Combine returns a new list holding the per-type sum of both lists. The
// result folds case only when both operands do.
func (l *List) Combine(other *List) *List {
	out := New(l.caseSensitive || other.caseSensitive)
	for _, e := range l.Items() {
		out.Count(e.Type, e.Count)
	}
	for _, e := range other.Items() {
		out.Count(e.Type, e.Count)
	}
	return out
}

// Summary describes the spread of counts across types.
type Summary struct {
	Mean   float64
	Median float64
	StdDev float64 // sample standard deviation
}

// Summary computes count statistics. StdDev is NaN for a single type.
func (l *List) Summary() (Summary, error) {
	data := make(stats.Float64Data, 0, len(l.counts))
	for _, k := range l.order {
		data = append(data, float64(l.counts[k].count))
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summary of empty list: %w", internalerr.ErrInvalidInput)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summary median: %w", err)
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summary stddev: %w", err)
	}
	return Summary{Mean: mean, Median: median, StdDev: sd}, nil
}

// Output writes one "type<delimiter>count" line per entry in rank order.
func (l *List) Output(w io.Writer, delimiter string) error {
	for _, e := range l.Rank() {
		if _, err := fmt.Fprintf(w, "%s%s%d\n", e.Type, delimiter, e.Count); err != nil {
			return err
		}
	}
	return nil
}
