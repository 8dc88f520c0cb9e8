package rem

import (
	"errors"
	"math"
	"sort"

	"audival/domain/core"
	"audival/internal/stattest"
)

// DataModel owns one study's measured and target tables. Construction
// copies both inputs and backfills missing form factors, so callers keep
// their slices and the model keeps its own.
type DataModel struct {
	measured []Measurement
	targets  []Target

	targetDiffs DeviationGroups
}

// NewDataModel builds a model from Verifit measurements and e-STAT targets.
// Every measured subject must appear in the target table; a subject without
// a target entry cannot be assigned a form factor and fails the batch.
func NewDataModel(measured []Measurement, targets []Target) (*DataModel, error) {
	if len(measured) == 0 || len(targets) == 0 {
		return nil, core.ErrEmptyDataset
	}

	m := &DataModel{
		measured: append([]Measurement(nil), measured...),
		targets:  append([]Target(nil), targets...),
	}
	if err := m.assignFormFactors(); err != nil {
		return nil, err
	}
	return m, nil
}

// assignFormFactors backfills empty form_factor values on measurements
// from the target table, which records one form factor per subject.
func (m *DataModel) assignFormFactors() error {
	bySubject := make(map[string]string)
	for _, t := range m.targets {
		bySubject[t.Subject] = t.FormFactor
	}

	for i, meas := range m.measured {
		if meas.FormFactor != "" {
			continue
		}
		form, ok := bySubject[meas.Subject]
		if !ok {
			return core.NewUnassignableSubjectError(meas.Subject)
		}
		m.measured[i].FormFactor = form
	}
	return nil
}

// Measured returns a copy of the measured table
func (m *DataModel) Measured() []Measurement {
	return append([]Measurement(nil), m.measured...)
}

// Targets returns a copy of the target table
func (m *DataModel) Targets() []Target {
	return append([]Target(nil), m.targets...)
}

// CollapseFormFactors returns a new model with form-factor categories
// relabeled through mapping in both tables. Labels without a mapping pass
// through unchanged, so collapsing is a pure relabel: the collapsed groups
// are unions of the original groups with diffs untouched.
func (m *DataModel) CollapseFormFactors(mapping map[string]string) *DataModel {
	collapsed := &DataModel{
		measured: make([]Measurement, len(m.measured)),
		targets:  make([]Target, len(m.targets)),
	}
	for i, meas := range m.measured {
		if to, ok := mapping[meas.FormFactor]; ok {
			meas.FormFactor = to
		}
		collapsed.measured[i] = meas
	}
	for i, tgt := range m.targets {
		if to, ok := mapping[tgt.FormFactor]; ok {
			tgt.FormFactor = to
		}
		collapsed.targets[i] = tgt
	}
	return collapsed
}

// pairKey joins one measurement to its counterpart row
type pairKey struct {
	Subject    string
	FormFactor string
	Freq       float64
}

// DiffFromTarget computes measured-minus-target deviations per ear for
// every (condition, form_factor) group in measured. Rows are paired by an
// explicit (subject, form_factor, freq) join; a measurement without a
// matching target row fails the batch rather than truncating.
func DiffFromTarget(measured []Measurement, targets []Target) (DeviationGroups, error) {
	index := make(map[pairKey]Target, len(targets))
	for _, t := range targets {
		index[pairKey{t.Subject, t.FormFactor, t.Freq}] = t
	}

	groups := make(DeviationGroups)
	for _, meas := range measured {
		tgt, ok := index[pairKey{meas.Subject, meas.FormFactor, meas.Freq}]
		if !ok {
			return nil, core.NewUnpairedMeasurementError(meas.Subject, meas.Freq, "no target row")
		}
		key := GroupKey{Condition: meas.Condition, FormFactor: meas.FormFactor}
		groups[key] = append(groups[key], Deviation{
			Measurement: meas,
			LeftDiff:    meas.Left65 - tgt.Left,
			RightDiff:   meas.Right65 - tgt.Right,
		})
	}
	return groups, nil
}

// DiffBetweenConditions computes condA-minus-condB deviations per ear,
// restricted to subjects measured in both conditions. Pairing is the same
// (subject, form_factor, freq) join; a subject measured in both conditions
// but missing a frequency row on one side fails the batch. Groups are
// keyed by (condB, form_factor), mirroring the fine-tuning reports where
// the subtrahend condition names the group.
func DiffBetweenConditions(measured []Measurement, condA, condB string) (DeviationGroups, error) {
	subjectsA := make(map[string]bool)
	subjectsB := make(map[string]bool)
	indexA := make(map[pairKey]Measurement)
	for _, meas := range measured {
		switch meas.Condition {
		case condA:
			subjectsA[meas.Subject] = true
			indexA[pairKey{meas.Subject, meas.FormFactor, meas.Freq}] = meas
		case condB:
			subjectsB[meas.Subject] = true
		}
	}
	if len(subjectsA) == 0 || len(subjectsB) == 0 {
		return nil, core.ErrUnknownCondition
	}

	groups := make(DeviationGroups)
	for _, meas := range measured {
		if meas.Condition != condB || !subjectsA[meas.Subject] {
			continue
		}
		ref, ok := indexA[pairKey{meas.Subject, meas.FormFactor, meas.Freq}]
		if !ok {
			return nil, core.NewUnpairedMeasurementError(meas.Subject, meas.Freq, "no "+condA+" row")
		}
		key := GroupKey{Condition: meas.Condition, FormFactor: meas.FormFactor}
		groups[key] = append(groups[key], Deviation{
			Measurement: meas,
			LeftDiff:    ref.Left65 - meas.Left65,
			RightDiff:   ref.Right65 - meas.Right65,
		})
	}
	return groups, nil
}

// BandResult is the criteria outcome for one group at one frequency
type BandResult struct {
	Condition     string                `json:"condition"`
	FormFactor    string                `json:"form_factor"`
	Freq          float64               `json:"freq"`
	Band          string                `json:"band"` // "low" or "high"
	Ceiling       float64               `json:"ceiling"`
	EarsWithin    int                   `json:"ears_within"`
	EarsTotal     int                   `json:"ears_total"`
	PercentWithin float64               `json:"percent_within"`
	TTest         *stattest.TTestResult `json:"t_test,omitempty"`
}

// Report is the full criteria analysis for one dataset
type Report struct {
	Params  AnalysisParams `json:"params"`
	Results []BandResult   `json:"results"`
}

// Analyze computes the deviation groups against target and scores each
// group per frequency band: the share of ears within the band's ceiling,
// plus a two-sided one-sample t-test of the pooled per-ear deviations
// against the ceiling. The deviation groups are retained for the
// TargetDiffs accessor and downstream report writers.
func (m *DataModel) Analyze(params AnalysisParams) (*Report, error) {
	diffs, err := DiffFromTarget(m.measured, m.targets)
	if err != nil {
		return nil, err
	}
	m.targetDiffs = diffs

	// Sorted group order keeps the report and its CSV stable across runs
	keys := make([]GroupKey, 0, len(diffs))
	for key := range diffs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Condition != keys[j].Condition {
			return keys[i].Condition < keys[j].Condition
		}
		return keys[i].FormFactor < keys[j].FormFactor
	})

	report := &Report{Params: params}
	for _, key := range keys {
		rows := diffs[key]
		for _, freq := range params.LowFreqs {
			result, err := scoreBand(key, rows, freq, "low", params.LowCeiling)
			if err != nil {
				return nil, err
			}
			report.Results = append(report.Results, result)
		}
		for _, freq := range params.HighFreqs {
			result, err := scoreBand(key, rows, freq, "high", params.HighCeiling)
			if err != nil {
				return nil, err
			}
			report.Results = append(report.Results, result)
		}
	}
	return report, nil
}

// TargetDiffs returns the deviation groups from the last Analyze call,
// or nil before the first call.
func (m *DataModel) TargetDiffs() DeviationGroups {
	return m.targetDiffs
}

// EndStudyDiffs computes the EndStudy-minus-TargetMatch fine-tuning groups.
func (m *DataModel) EndStudyDiffs() (DeviationGroups, error) {
	return DiffBetweenConditions(m.measured, ConditionEndStudy, ConditionTargetMatch)
}

// BestFitDiffs computes the BestFit-minus-TargetMatch fine-tuning groups.
func (m *DataModel) BestFitDiffs() (DeviationGroups, error) {
	return DiffBetweenConditions(m.measured, ConditionBestFit, ConditionTargetMatch)
}

// scoreBand counts ears within the ceiling at one frequency and tests the
// pooled deviations against it. A NaN deviation counts toward the total
// but never as within criteria. Groups too small to test report the
// criteria share with a nil t-test.
func scoreBand(key GroupKey, rows []Deviation, freq float64, band string, ceiling float64) (BandResult, error) {
	var pooled []float64
	within, total := 0, 0
	for _, row := range rows {
		if row.Freq != freq {
			continue
		}
		for _, diff := range []float64{row.LeftDiff, row.RightDiff} {
			total++
			if math.Abs(diff) <= ceiling {
				within++
			}
			pooled = append(pooled, diff)
		}
	}

	result := BandResult{
		Condition:  key.Condition,
		FormFactor: key.FormFactor,
		Freq:       freq,
		Band:       band,
		Ceiling:    ceiling,
		EarsWithin: within,
		EarsTotal:  total,
	}
	if total > 0 {
		result.PercentWithin = float64(within) / float64(total) * 100
	}

	ttest, err := stattest.OneSampleTTest(pooled, ceiling)
	switch {
	case err == nil:
		result.TTest = &ttest
	case errors.Is(err, core.ErrInsufficientData):
		// Small or absent cell: criteria share still reported
	default:
		return BandResult{}, err
	}
	return result, nil
}
