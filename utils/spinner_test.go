package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner("rendering", time.Millisecond, false)
	s.SetWriter(&buf)
	s.StopMsg = "done"

	s.Start()
	s.Start() // no-op while running
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop() // no-op once stopped

	assert.True(t, strings.HasSuffix(buf.String(), "done"))
	assert.True(t, strings.Contains(buf.String(), "rendering"))
}
