package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"summarise", "summarise", true},
		{"Summarize", "summarise", true},
		{"  READ SUMMARY.  ", "read summary", true},
		{"- extract text", "extract text", true},
		{"`focus mode on`", "focus mode on", true},
		{"\"focus  mode   off\"", "focus mode off", true},
		{"scroll down!", "scroll down", true},
		{"• scroll up", "scroll up", true},
		{"click Sign In", "click Sign In", true},
		{"Click \"Add to cart\".", "click Add to cart", true},
		{"click", "summarise", false},
		{"click   ", "summarise", false},
		{"open the pod bay doors", "summarise", false},
		{"", "summarise", false},
		{"...", "summarise", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := NormalizeCommand(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "scroll down", firstLine("\n\n  scroll down  \nscroll up"))
	assert.Equal(t, "", firstLine(" \n\t\n"))
}
