package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	t.Cleanup(func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	})

	logger := New("logtest")

	SetLevel(Warning)
	logger.Info("hidden")
	logger.Warningf("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
	assert.Contains(t, buf.String(), "[logtest]")

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, Debug, CurrentLevel())
}

func TestSetSinkKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLevel(Error)
	SetSink(&buf)
	t.Cleanup(func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	})

	New("logtest").Notice("dropped")
	assert.Empty(t, buf.String())
}
