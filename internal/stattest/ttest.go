// Package stattest implements the statistical tests used by the study
// pipelines: one-sample t-tests against a criterion, the Friedman test for
// repeated measures, and the Wilcoxon signed-rank test for paired samples.
package stattest

import (
	"math"

	"audival/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult holds a two-sided one-sample t-test outcome
type TTestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	DF        float64 `json:"df"`
	Mean      float64 `json:"mean"`
	CILower   float64 `json:"ci_lower"` // 95% confidence interval
	CIUpper   float64 `json:"ci_upper"`
	N         int     `json:"n"`
}

// OneSampleTTest tests whether the mean of sample differs from popMean,
// two-sided. NaN values are omitted before testing; fewer than two finite
// observations is an error.
func OneSampleTTest(sample []float64, popMean float64) (TTestResult, error) {
	finite := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	n := len(finite)
	if n < 2 {
		return TTestResult{}, core.ErrInsufficientData
	}

	mean, err := stats.Mean(finite)
	if err != nil {
		return TTestResult{}, err
	}
	sd, err := stats.StandardDeviationSample(finite)
	if err != nil {
		return TTestResult{}, err
	}
	if sd == 0 {
		return TTestResult{}, core.ErrInsufficientData
	}

	se := sd / math.Sqrt(float64(n))
	tStat := (mean - popMean) / se
	df := float64(n - 1)

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * dist.CDF(-math.Abs(tStat))
	tCrit := dist.Quantile(0.975)

	return TTestResult{
		Statistic: tStat,
		PValue:    pValue,
		DF:        df,
		Mean:      mean,
		CILower:   mean - tCrit*se,
		CIUpper:   mean + tCrit*se,
		N:         n,
	}, nil
}
