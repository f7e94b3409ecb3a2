package logging

import "testing"

// TestParseLevel verifies level names map correctly, defaulting to info.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestParseFormat verifies format names map correctly, defaulting to text.
func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, want FormatJSON", got)
	}
	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v, want FormatText", got)
	}
	if got := ParseFormat(""); got != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, want FormatText", got)
	}
}

// TestWithRun verifies run-scoped loggers are non-nil.
func TestWithRun(t *testing.T) {
	Init(LevelInfo, FormatText)
	if WithRun("0d9ed8f2") == nil {
		t.Error("WithRun returned nil")
	}
}
