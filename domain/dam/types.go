// Package dam organizes paired-comparison listening trial data and removes
// incomplete datasets. Transforms are value-semantic: every operation takes
// an owned input slice and returns a new one.
package dam

// TrialType classifies a trial by its audio track
type TrialType string

const (
	TrialPref  TrialType = "pref"
	TrialNoise TrialType = "noise"
)

// ExpectedTrials is the number of repeated presentations per
// subject/comparison/snr/condition cell in a complete dataset.
const ExpectedTrials = 4

// noiseTracks are the audio track numbers presented as noise trials.
// Any other track is a preference trial.
var noiseTracks = map[string]bool{
	"119": true,
	"205": true,
	"193": true,
	"181": true,
	"170": true,
	"182": true,
	"160": true,
	"71":  true,
}

// comparisons maps every known raw comparison label to its canonical
// direction, collapsing mirrored presentations (e.g. DAM_4-DAM_3 and
// DAM_3-DAM_4 are the same comparison).
var comparisons = map[string]string{
	"DAM_3-DAM_OFF": "DAM_OFF-DAM_3",
	"DAM_4-DAM_3":   "DAM_3-DAM_4",
	"DAM_3-MNR_3":   "MNR_3-DAM_3",
	"DAM_OFF-DAM_3": "DAM_OFF-DAM_3",
	"DAM_3-DAM_4":   "DAM_3-DAM_4",
	"MNR_3-DAM_3":   "MNR_3-DAM_3",
}

// Observation is one raw trial row as parsed from a study export.
// Immutable once parsed.
type Observation struct {
	Subject   string `json:"subject"`
	Condition string `json:"condition"`
	ButtonA   string `json:"button_A"`
	ButtonB   string `json:"button_B"`
	AudioFile string `json:"audio_file"`
	Outcome   string `json:"outcome"`
}

// Derived is an Observation plus the classification columns added by
// Organize: canonical comparison, SNR, track number and trial type.
type Derived struct {
	Observation

	Comparison string    `json:"comparison"`
	SNR        string    `json:"snr"`
	Track      string    `json:"track"`
	Type       TrialType `json:"type"`
}

// groupKey is the composite completeness key. Completeness is evaluated
// per trial type, so Type is not part of the key.
type groupKey struct {
	Subject    string
	Comparison string
	SNR        string
	Condition  string
}
