package pmi

import "github.com/cognicore/nlpstat/pkg/nlpstat/freqlist"

// Counter maintains unigram and adjacent-bigram frequency lists for PMI calculation
type Counter struct {
	Unigrams  *freqlist.List
	Bigrams   *freqlist.List
	sentences int64
}

// NewCounter creates a new counter
func NewCounter(caseSensitive bool) *Counter {
	return &Counter{
		Unigrams: freqlist.New(caseSensitive),
		Bigrams:  freqlist.New(caseSensitive),
	}
}

// AddSentence counts every token and every adjacent token pair
func (c *Counter) AddSentence(tokens []string) {
	c.sentences++
	c.Unigrams.Append(tokens)

	for i := 0; i+1 < len(tokens); i++ {
		c.Bigrams.Count(freqlist.Type{tokens[i], tokens[i+1]}, 1)
	}
}

// Sentences returns the number of sentences processed
func (c *Counter) Sentences() int64 {
	return c.sentences
}

// UnigramCount returns the count of a token, 0 if unseen
func (c *Counter) UnigramCount(t string) int64 {
	n, err := c.Unigrams.Get(freqlist.Type{t})
	if err != nil {
		return 0
	}
	return n
}

// BigramCount returns how often b directly follows a, 0 if unseen
func (c *Counter) BigramCount(a, b string) int64 {
	n, err := c.Bigrams.Get(freqlist.Type{a, b})
	if err != nil {
		return 0
	}
	return n
}
