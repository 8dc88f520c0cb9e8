package stattest

import (
	"fmt"
	"math"

	"audival/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// WilcoxonResult holds a Wilcoxon signed-rank test outcome
type WilcoxonResult struct {
	Statistic float64 `json:"statistic"` // min(W+, W-)
	PValue    float64 `json:"p_value"`
	N         int     `json:"n"` // pairs remaining after zero differences are dropped
}

// Wilcoxon runs the two-sided Wilcoxon signed-rank test on paired samples.
// Zero differences are discarded before ranking; a NaN in either sample
// fails the batch rather than quietly shrinking it. The p-value uses the
// normal approximation with tie-corrected variance, which is the operating
// regime for these studies (dozens of paired scores per comparison).
func Wilcoxon(x, y []float64) (WilcoxonResult, error) {
	if len(x) != len(y) {
		return WilcoxonResult{}, core.ErrInsufficientData
	}

	var diffs []float64
	for i := range x {
		d := x[i] - y[i]
		if math.IsNaN(d) {
			return WilcoxonResult{}, fmt.Errorf("%w: pair %d", core.ErrMissingObservation, i)
		}
		if d == 0 {
			continue
		}
		diffs = append(diffs, d)
	}
	n := len(diffs)
	if n < 2 {
		return WilcoxonResult{}, core.ErrInsufficientData
	}

	absDiffs := make([]float64, n)
	for i, d := range diffs {
		absDiffs[i] = math.Abs(d)
	}
	ranks := rankAverage(absDiffs)

	var wPlus, wMinus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	statistic := math.Min(wPlus, wMinus)

	nf := float64(n)
	mean := nf * (nf + 1) / 4
	variance := nf*(nf+1)*(2*nf+1)/24 - tieCorrectionTerm(absDiffs)/48
	if variance <= 0 {
		return WilcoxonResult{}, core.ErrInsufficientData
	}

	z := (statistic - mean) / math.Sqrt(variance)
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	pValue := 2 * norm.CDF(-math.Abs(z))
	if pValue > 1 {
		pValue = 1
	}

	return WilcoxonResult{Statistic: statistic, PValue: pValue, N: n}, nil
}
