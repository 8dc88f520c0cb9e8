package dam

// RemoveIncomplete drops every subject/comparison/snr/condition cell that
// does not contain exactly ExpectedTrials rows. Preference and noise trials
// are filtered independently: the expected count is only meaningful within
// a homogeneous trial type.
func RemoveIncomplete(rows []Derived) []Derived {
	return FilterComplete(rows, ExpectedTrials)
}

// FilterComplete partitions rows by trial type, filters each partition
// against the expected per-cell count, and concatenates the results
// (pref first, then noise, matching the partition order).
func FilterComplete(rows []Derived, expected int) []Derived {
	var prefs, noise []Derived
	for _, row := range rows {
		if row.Type == TrialPref {
			prefs = append(prefs, row)
		} else {
			noise = append(noise, row)
		}
	}

	out := filterPartition(prefs, expected)
	out = append(out, filterPartition(noise, expected)...)
	return out
}

// filterPartition enumerates the full Cartesian product of the observed
// distinct values of each key field, not just the combinations that occur.
// A combination with no rows is expected (sparse designs) and skipped; a
// combination with rows but the wrong count is a partially-missing cell
// and is dropped wholesale, never trimmed. Checking only present group
// keys would find those cells too, but the product enumeration keeps the
// absent/incomplete distinction explicit.
func filterPartition(rows []Derived, expected int) []Derived {
	subjects := distinct(rows, func(r Derived) string { return r.Subject })
	comps := distinct(rows, func(r Derived) string { return r.Comparison })
	snrs := distinct(rows, func(r Derived) string { return r.SNR })
	conds := distinct(rows, func(r Derived) string { return r.Condition })

	groups := make(map[groupKey][]Derived)
	for _, row := range rows {
		k := groupKey{row.Subject, row.Comparison, row.SNR, row.Condition}
		groups[k] = append(groups[k], row)
	}

	var kept []Derived
	for _, subject := range subjects {
		for _, comparison := range comps {
			for _, snr := range snrs {
				for _, condition := range conds {
					cell := groups[groupKey{subject, comparison, snr, condition}]
					if len(cell) == 0 {
						continue
					}
					if len(cell) != expected {
						continue
					}
					kept = append(kept, cell...)
				}
			}
		}
	}
	return kept
}

// distinct returns the unique values of one key field in first-seen order,
// keeping the output deterministic for a given input ordering.
func distinct(rows []Derived, key func(Derived) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		v := key(row)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}
