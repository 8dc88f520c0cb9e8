package stattest

import (
	"fmt"
	"math"

	"audival/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// FriedmanResult holds a Friedman chi-square test outcome
type FriedmanResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	DF        float64 `json:"df"`
	Subjects  int     `json:"subjects"`
	Groups    int     `json:"groups"`
}

// Friedman runs the Friedman chi-square test for repeated measures.
// rows[i] holds one subject's scores across the k conditions; every row
// must have the same length k >= 3. Ties within a row receive average
// ranks and the statistic carries the standard tie correction. The test
// is within-subject, so a NaN anywhere fails the batch: ranking a row
// around a missing score would fabricate a result from incomplete data.
func Friedman(rows [][]float64) (FriedmanResult, error) {
	n := len(rows)
	if n < 1 {
		return FriedmanResult{}, core.ErrInsufficientData
	}
	k := len(rows[0])
	if k < 3 {
		return FriedmanResult{}, core.ErrInsufficientData
	}
	for i, row := range rows {
		if len(row) != k {
			return FriedmanResult{}, core.ErrInsufficientData
		}
		for j, v := range row {
			if math.IsNaN(v) {
				return FriedmanResult{}, fmt.Errorf("%w: subject %d condition %d",
					core.ErrMissingObservation, i, j)
			}
		}
	}

	rankSums := make([]float64, k)
	tieTerm := 0.0
	for _, row := range rows {
		ranks := rankAverage(row)
		for j, r := range ranks {
			rankSums[j] += r
		}
		tieTerm += tieCorrectionTerm(row)
	}

	nf := float64(n)
	kf := float64(k)
	sumSq := 0.0
	for _, rj := range rankSums {
		sumSq += rj * rj
	}
	chi2 := 12/(nf*kf*(kf+1))*sumSq - 3*nf*(kf+1)

	// Tie correction divisor; 1.0 when no ties occurred
	correction := 1 - tieTerm/(nf*kf*(kf*kf-1))
	if correction <= 0 {
		return FriedmanResult{}, core.ErrInsufficientData
	}
	chi2 /= correction

	df := kf - 1
	dist := distuv.ChiSquared{K: df}
	pValue := 1 - dist.CDF(chi2)

	return FriedmanResult{
		Statistic: chi2,
		PValue:    pValue,
		DF:        df,
		Subjects:  n,
		Groups:    k,
	}, nil
}
