package pmi

import "math"

// Calculator handles PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a new PMI calculator with the given epsilon
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the pointwise mutual information of the bigram (a, b)
//
// PMI(a,b) = log(P(a,b) / (P(a) P(b)))
//
// Where:
//   - P(a,b) = (N_ab + ε) / B, B = total bigram count
//   - P(x)   = (N_x + ε) / N,  N = total unigram count
//   - ε = smoothing constant (default 1.0)
func (c *Calculator) PMI(counter *Counter, a, b string) float64 {
	N := float64(counter.Unigrams.Total())
	B := float64(counter.Bigrams.Total())
	if N == 0 || B == 0 {
		return 0
	}

	pAB := (float64(counter.BigramCount(a, b)) + c.epsilon) / B
	pA := (float64(counter.UnigramCount(a)) + c.epsilon) / N
	pB := (float64(counter.UnigramCount(b)) + c.epsilon) / N

	return math.Log(pAB / (pA * pB))
}

// NPMI calculates normalized PMI
// NPMI(a,b) = PMI(a,b) / -log(P(a,b))
func (c *Calculator) NPMI(counter *Counter, a, b string) float64 {
	B := float64(counter.Bigrams.Total())
	if B == 0 || counter.BigramCount(a, b) == 0 {
		return 0
	}

	pAB := (float64(counter.BigramCount(a, b)) + c.epsilon) / B
	logPAB := math.Log(pAB)
	if logPAB == 0 {
		return 0
	}

	return c.PMI(counter, a, b) / -logPAB
}
