package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Checking")
	assert.Equal(t, "Checking", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
	assert.Zero(t, s.Elapsed())
}

func TestSpinnerSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Checking API")
	s.SetOutput(&buf)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	out := buf.String()
	assert.Contains(t, out, "Checking API...")
	assert.Contains(t, out, SymbolComplete+" Checking API ")
	assert.Contains(t, out, "\n")
}

func TestSpinnerFail(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Checking API")
	s.SetOutput(&buf)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, buf.String(), SymbolFail+" Checking API ")
}

func TestSpinnerDoubleStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("x")
	s.SetOutput(&buf)

	s.Start()
	s.Start()
	s.Success()
	assert.Equal(t, SpinnerSuccess, s.State())
}

func TestSpinnerFinishWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("never started")
	s.SetOutput(&buf)

	assert.NotPanics(t, s.Fail)
	assert.Equal(t, SpinnerFailed, s.State())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Millisecond, "0.03s"},
		{300 * time.Millisecond, "0.3s"},
		{1200 * time.Millisecond, "1.2s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
