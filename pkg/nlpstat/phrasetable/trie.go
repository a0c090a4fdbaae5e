// Package phrasetable holds a statistical machine translation phrase table
// in memory as a prefix tree keyed by source-language words.
package phrasetable

import (
	"fmt"
	"sort"

	"github.com/cognicore/nlpstat/pkg/nlpstat/internalerr"
)

// Translation is one candidate target phrase for a source phrase.
type Translation struct {
	Target         []string
	PSourceTarget  float64 // p(source|target)
	PTargetSource  float64 // p(target|source)
	NullAlignments int
}

// node owns its children. terminal marks the end of an inserted source phrase.
type node struct {
	children     map[string]*node
	translations []Translation
	terminal     bool
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Table maps source phrases to translations. Build it with Insert or Load,
// then treat it as read-only; concurrent readers are safe once loading is done.
type Table struct {
	root    *node
	phrases int
	entries int
}

// New creates an empty phrase table
func New() *Table {
	return &Table{root: newNode()}
}

// Insert appends a translation to the slot for source, creating nodes for
// unseen words. An empty source phrase lands on the root.
func (t *Table) Insert(source, target []string, pst, pts float64, nullAlignments int) {
	n := t.root
	for _, word := range source {
		child, ok := n.children[word]
		if !ok {
			child = newNode()
			n.children[word] = child
		}
		n = child
	}

	if !n.terminal {
		n.terminal = true
		t.phrases++
	}
	n.translations = append(n.translations, Translation{
		Target:         target,
		PSourceTarget:  pst,
		PTargetSource:  pts,
		NullAlignments: nullAlignments,
	})
	t.entries++
}

func (t *Table) find(phrase []string) *node {
	n := t.root
	for _, word := range phrase {
		child, ok := n.children[word]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Contains reports whether phrase was inserted as a complete source phrase.
// A proper prefix of an inserted phrase is not contained.
func (t *Table) Contains(phrase []string) bool {
	n := t.find(phrase)
	return n != nil && n.terminal
}

// PrefixOf reports whether some inserted phrase starts with prefix.
func (t *Table) PrefixOf(prefix []string) bool {
	n := t.find(prefix)
	return n != nil && (n.terminal || len(n.children) > 0)
}

// Lookup returns the translations of phrase in insertion order. The slice is
// shared with the table and must not be modified.
func (t *Table) Lookup(phrase []string) ([]Translation, error) {
	n := t.find(phrase)
	if n == nil || !n.terminal {
		return nil, fmt.Errorf("phrase %q: %w", phrase, internalerr.ErrNotFound)
	}
	return n.translations, nil
}

// Len returns the number of distinct source phrases.
func (t *Table) Len() int {
	return t.phrases
}

// Entries returns the number of translation records across all phrases.
func (t *Table) Entries() int {
	return t.entries
}

// Walk visits every source phrase with its translations, ordering sibling
// words lexically. Returning false from fn stops the walk.
func (t *Table) Walk(fn func(source []string, translations []Translation) bool) {
	walk(t.root, nil, fn)
}

func walk(n *node, path []string, fn func([]string, []Translation) bool) bool {
	if n.terminal {
		source := make([]string, len(path))
		copy(source, path)
		if !fn(source, n.translations) {
			return false
		}
	}

	words := make([]string, 0, len(n.children))
	for w := range n.children {
		words = append(words, w)
	}
	sort.Strings(words)

	for _, w := range words {
		if !walk(n.children[w], append(path, w), fn) {
			return false
		}
	}
	return true
}
