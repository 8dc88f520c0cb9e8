package stattest

import "sort"

// rankAverage assigns 1-based ranks to values, giving tied values the
// average of the ranks they span.
func rankAverage(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// Average rank across the tie run [i, j]
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieCorrectionTerm computes sum(t^3 - t) over all tie runs in ranked values.
func tieCorrectionTerm(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	term := 0.0
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		term += t*t*t - t
		i = j + 1
	}
	return term
}
