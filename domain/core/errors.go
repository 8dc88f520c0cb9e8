package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingest errors
	ErrInvalidFileName = errors.New("invalid data file name")
	ErrEmptyDataset    = errors.New("dataset is empty")

	// DAM organize errors
	ErrMalformedAudioFile = errors.New("malformed audio file name")
	ErrUnknownComparison  = errors.New("unknown comparison label")

	// REM pairing errors
	ErrUnassignableSubject = errors.New("subject has no form factor assignment")
	ErrUnpairedMeasurement = errors.New("measurement has no matching counterpart")
	ErrUnknownCondition    = errors.New("condition not present in data")

	// Statistics errors
	ErrInsufficientData   = errors.New("insufficient data for analysis")
	ErrMissingObservation = errors.New("missing observation in paired scores")
)

// Error constructors with context
func NewInvalidFileNameError(names []string) error {
	return fmt.Errorf("%w: %v", ErrInvalidFileName, names)
}

func NewMalformedAudioFileError(audioFile string) error {
	return fmt.Errorf("%w: %q has fewer than 5 underscore tokens", ErrMalformedAudioFile, audioFile)
}

func NewUnknownComparisonError(label string) error {
	return fmt.Errorf("%w: %q", ErrUnknownComparison, label)
}

func NewUnassignableSubjectError(subject string) error {
	return fmt.Errorf("%w: subject %s not in target table", ErrUnassignableSubject, subject)
}

func NewUnpairedMeasurementError(subject string, freq float64, detail string) error {
	return fmt.Errorf("%w: subject %s freq %g (%s)", ErrUnpairedMeasurement, subject, freq, detail)
}

// Error checking helpers
func IsIngestError(err error) bool {
	return errors.Is(err, ErrInvalidFileName) || errors.Is(err, ErrEmptyDataset)
}

func IsOrganizeError(err error) bool {
	return errors.Is(err, ErrMalformedAudioFile) || errors.Is(err, ErrUnknownComparison)
}

func IsPairingError(err error) bool {
	return errors.Is(err, ErrUnassignableSubject) ||
		errors.Is(err, ErrUnpairedMeasurement) ||
		errors.Is(err, ErrUnknownCondition)
}
