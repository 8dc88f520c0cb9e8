package dam

import (
	"strings"

	"audival/domain/core"
)

// Organize derives the classification columns for every raw observation:
//
//  1. comparison = button_A + "-" + button_B, flipped to its canonical
//     direction so mirrored presentations land in the same group
//  2. snr and track parsed from the underscore-delimited audio file name
//     (5th and 1st tokens)
//  3. trial type: noise if the track is a known noise track, else pref
//
// The input is not modified. Any malformed audio file name or unknown
// comparison label aborts the whole batch: an unrecognized label means the
// upstream export is corrupt, and silently dropping rows would skew the
// completeness check downstream.
func Organize(rows []Observation) ([]Derived, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	derived := make([]Derived, 0, len(rows))
	for _, row := range rows {
		tokens := strings.Split(row.AudioFile, "_")
		if len(tokens) < 5 {
			return nil, core.NewMalformedAudioFileError(row.AudioFile)
		}

		comparison, err := Canonicalize(row.ButtonA + "-" + row.ButtonB)
		if err != nil {
			return nil, err
		}

		track := tokens[0]
		trialType := TrialPref
		if noiseTracks[track] {
			trialType = TrialNoise
		}

		derived = append(derived, Derived{
			Observation: row,
			Comparison:  comparison,
			SNR:         tokens[4],
			Track:       track,
			Type:        trialType,
		})
	}
	return derived, nil
}

// Canonicalize maps a raw comparison label to its canonical direction.
// Canonical labels map to themselves, so the operation is idempotent.
func Canonicalize(label string) (string, error) {
	canonical, ok := comparisons[label]
	if !ok {
		return "", core.NewUnknownComparisonError(label)
	}
	return canonical, nil
}
