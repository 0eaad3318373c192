package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVideoStatus(t *testing.T) {
	assert.Equal(t, StatusProcessing, ParseVideoStatus("processing"))
	assert.Equal(t, StatusReady, ParseVideoStatus("ready"))
	assert.Equal(t, StatusFailed, ParseVideoStatus("failed"))
	assert.Equal(t, StatusUnknown, ParseVideoStatus("unknown"))
	assert.Equal(t, StatusUnknown, ParseVideoStatus(""))
	assert.Equal(t, StatusUnknown, ParseVideoStatus("garbage"))
}

func TestVideoStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusReady.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusUnknown.IsTerminal())
}
