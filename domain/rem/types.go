// Package rem pairs real-ear measurements with prescriptive targets and
// computes signed per-ear deviations for the validation study MDR analyses.
package rem

// Named fitting-protocol stages recorded in the measured data.
const (
	ConditionBestFit     = "BestFit"
	ConditionTargetMatch = "TargetMatch"
	ConditionEndStudy    = "EndStudy"
)

// CollapseRIC merges the receiver-in-canal variants and the wireless
// custom styles into aggregate buckets for the collapsed analysis.
var CollapseRIC = map[string]string{
	"MRIC":   "RIC",
	"RIC_RT": "RIC",
	"RIC312": "RIC",
	"ITE":    "ReCustom",
	"ITC":    "ReCustom",
	"CIC":    "CIC",
}

// Measurement is one Verifit REM row: measured SPL per ear at one
// frequency for a 65 dB SPL input.
type Measurement struct {
	Subject    string  `json:"subject"`
	Condition  string  `json:"condition"`
	FormFactor string  `json:"form_factor"`
	Freq       float64 `json:"freq"`
	Left65     float64 `json:"left65"`
	Right65    float64 `json:"right65"`
}

// Target is one e-STAT 2.0 row: prescribed SPL per ear at one frequency.
type Target struct {
	Subject    string  `json:"subject"`
	FormFactor string  `json:"form_factor"`
	Freq       float64 `json:"freq"`
	Left       float64 `json:"left"`
	Right      float64 `json:"right"`
}

// Deviation extends a Measurement with signed per-ear differences
// (measured minus target, or measured minus measured for condition
// comparisons).
type Deviation struct {
	Measurement

	LeftDiff  float64 `json:"left_diff"`
	RightDiff float64 `json:"right_diff"`
}

// GroupKey names one deviation group. A struct key rather than a
// concatenated string so lookups cannot collide on label contents.
type GroupKey struct {
	Condition  string `json:"condition"`
	FormFactor string `json:"form_factor"`
}

// DeviationGroups maps group keys to their deviation rows
type DeviationGroups map[GroupKey][]Deviation

// AnalysisParams configures the criteria analysis: which frequencies form
// the low and high bands and the dB ceiling applied to each.
type AnalysisParams struct {
	LowFreqs    []float64 `json:"low_freqs"`
	LowCeiling  float64   `json:"low_ceiling"`
	HighFreqs   []float64 `json:"high_freqs"`
	HighCeiling float64   `json:"high_ceiling"`
}

// DefaultAnalysisParams are the validation study criteria: within 5 dB of
// target at 500-2000 Hz, within 8 dB at 3000-4000 Hz.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		LowFreqs:    []float64{500, 1000, 2000},
		LowCeiling:  5,
		HighFreqs:   []float64{3000, 4000},
		HighCeiling: 8,
	}
}
