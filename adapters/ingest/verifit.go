package ingest

import (
	"fmt"
	"strings"

	"audival/domain/core"
	"audival/domain/rem"
)

// ReadMeasurements reads a Verifit session export. Each row's filename
// column encodes "subject_condition"; the form factor is left empty for
// later assignment from the target table.
func ReadMeasurements(path string) ([]rem.Measurement, error) {
	table, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, err
	}

	measurements := make([]rem.Measurement, 0, len(table.Rows))
	for _, row := range table.Rows {
		subject, condition, err := splitSessionName(row["filename"])
		if err != nil {
			return nil, err
		}
		freq, err := row.Float("freq")
		if err != nil {
			return nil, err
		}
		left, err := row.Float("left65")
		if err != nil {
			return nil, err
		}
		right, err := row.Float("right65")
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, rem.Measurement{
			Subject:   subject,
			Condition: condition,
			Freq:      freq,
			Left65:    left,
			Right65:   right,
		})
	}
	if len(measurements) == 0 {
		return nil, core.ErrEmptyDataset
	}
	return measurements, nil
}

// ReadTargets reads an e-STAT 2.0 target export. The filename column
// leads with the subject identifier; the trailing token is discarded.
func ReadTargets(path string) ([]rem.Target, error) {
	table, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, err
	}

	targets := make([]rem.Target, 0, len(table.Rows))
	for _, row := range table.Rows {
		subject, _, err := splitSessionName(row["filename"])
		if err != nil {
			return nil, err
		}
		freq, err := row.Float("freq")
		if err != nil {
			return nil, err
		}
		left, err := row.Float("left")
		if err != nil {
			return nil, err
		}
		right, err := row.Float("right")
		if err != nil {
			return nil, err
		}
		targets = append(targets, rem.Target{
			Subject:    subject,
			FormFactor: row["form_factor"],
			Freq:       freq,
			Left:       left,
			Right:      right,
		})
	}
	if len(targets) == 0 {
		return nil, core.ErrEmptyDataset
	}
	return targets, nil
}

// splitSessionName splits a "subject_label" session name into its parts.
func splitSessionName(name string) (subject, label string, err error) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("session name %q: expected subject_condition", name)
	}
	return parts[0], parts[1], nil
}
