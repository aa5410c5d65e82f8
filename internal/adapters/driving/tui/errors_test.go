package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingAnalysisService.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingAnalysisService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingAnalysisService.Error(), "analysis service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
