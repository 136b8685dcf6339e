package voxbody

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(&buf, "test", false)

	logger.Debugf("hidden %d", 1)
	logger.Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
	assert.False(t, logger.DebugEnabled())

	logger.SetDebug(true)
	logger.Debugf("visible %d", 3)
	assert.True(t, logger.DebugEnabled())
	assert.Contains(t, buf.String(), "visible 3")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.SetDebug(true)
	assert.False(t, logger.DebugEnabled())
	logger.Errorf("dropped")
}
