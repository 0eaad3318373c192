package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())

	wrapped := NewDomainErrorWithCause(ErrCodeAcquisition, "fetch failed", errors.New("boom"))
	assert.Equal(t, "[ACQUISITION_ERROR] fetch failed: boom", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestDomainError_IsMatchesSentinelWithCause(t *testing.T) {
	cause := errors.New("captions-api: blocked; yt-dlp-subtitles: timeout; metadata-fallback: unreachable")
	err := NewDomainErrorWithCause(ErrCodeAcquisition, "all acquisition strategies failed", cause)

	assert.ErrorIs(t, err, ErrAcquisitionExhausted)
	assert.NotErrorIs(t, err, ErrEmptyCorpus)
	assert.Contains(t, err.Error(), "captions-api")
}
