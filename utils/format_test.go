package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_FormatTime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1m 30.00s"},
		{2*time.Hour + 5*time.Minute, "2h 5m 0.00s"},
		{26 * time.Hour, "1d 2h 0m 0.00s"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatTime(c.d))
	}
}

func TestFormat_DecorateTextKeepsMessage(t *testing.T) {
	for _, mt := range []MessageType{DefaultMessage, SuccessMessage, ErrorMessage, StatusMessage} {
		out := DecorateText("qr ready", mt)
		assert.True(t, strings.Contains(out, "qr ready"))
	}
	assert.Equal(t, "plain", DecorateText("plain", MessageType(42)))
}
