package services

import (
	"errors"
	"strings"
)

var (
	ErrExtraction    = errors.New("extraction error")
	ErrNormalization = errors.New("normalization error")
	ErrExport        = errors.New("export error")
	ErrWorkspace     = errors.New("workspace error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
)

// StageError carries the failing stage alongside its classification marker.
type StageError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *StageError) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Err != nil {
		return e.Marker.Error() + ": " + detail + ": " + e.Err.Error()
	}
	return e.Marker.Error() + ": " + detail
}

// Unwrap exposes both the marker and the cause to errors.Is/As.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	return &StageError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// StageOf returns the outermost stage recorded on err, if any.
func StageOf(err error) (string, bool) {
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage == "" {
		return "", false
	}
	return stageErr.Stage, true
}

// Classify returns the marker that err was tagged with, or nil.
func Classify(err error) error {
	for _, marker := range []error{ErrExtraction, ErrNormalization, ErrExport, ErrWorkspace, ErrConfiguration, ErrExternalTool} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage != "" {
		parts = append(parts, stage)
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
