package services

import (
	"errors"
	"strings"
)

// Sentinel errors for the interview pipeline. Handlers and tests match on
// these with errors.Is; user-facing messages derive from the wrapped text.
var (
	// Transcription provider failures.
	ErrUpload               = errors.New("media upload failed")
	ErrJobStart             = errors.New("failed to start transcription job")
	ErrPoll                 = errors.New("failed to check transcription status")
	ErrTranscriptionFailed  = errors.New("transcription failed")
	ErrTranscriptionTimeout = errors.New("transcription timed out")

	// Pipeline-level conditions.
	ErrEmptyTranscript = errors.New("no speech detected in the recording")
	ErrValidation      = errors.New("uploaded file failed validation")

	// Model provider failures.
	ErrModelUnavailable = errors.New("model returned no usable content")
	ErrAnalysisParse    = errors.New("could not parse model reply as an assessment")
	ErrQuotaExceeded    = errors.New("provider quota exceeded, check billing or try again later")
)

// isQuotaError detects provider-reported quota or billing exhaustion from the
// error text so callers can present a remediation-oriented message.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "insufficient_quota")
}
