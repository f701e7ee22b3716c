package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "with context",
			opts: ErrorOptions{Context: "meter not found", Problem: "Cannot find meter 'x'.", NoColor: true},
			contains: []string{"❌ METER NOT FOUND\n", "   Cannot find meter 'x'.\n"},
		},
		{
			name:     "without context",
			opts:     ErrorOptions{Problem: "bad input", NoColor: true},
			contains: []string{"❌ bad input\n"},
			excludes: []string{"Did you mean"},
		},
		{
			name: "suggestions and help",
			opts: ErrorOptions{
				Problem:      "oops",
				Consequence:  "nothing was analyzed",
				Suggestions:  []string{"Anuṣṭubh", "Mālinī"},
				HelpCommands: []string{"chandas --help"},
				NoColor:      true,
			},
			contains: []string{"nothing was analyzed", "Did you mean: Anuṣṭubh, Mālinī?", "→ chandas --help"},
		},
		{
			name:     "warning",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "careful", NoColor: true},
			contains: []string{"⚠️ careful"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatError(tt.opts)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestMeterNotFoundError(t *testing.T) {
	out := MeterNotFoundError("anustubh", []string{"Anuṣṭubh"}, true)
	assert.Contains(t, out, "METER NOT FOUND")
	assert.Contains(t, out, "Cannot find meter 'anustubh'.")
	assert.Contains(t, out, "Did you mean: Anuṣṭubh?")
	assert.Contains(t, out, "chandas catalogue list")
}

func TestMessages(t *testing.T) {
	assert.Contains(t, ConfigError("matcher.threshold must be between 0 and 1", true), "CONFIGURATION ERROR")
	assert.Contains(t, Warning("using built-in catalogue", true), "⚠️ using built-in catalogue")
	assert.Contains(t, Info("watching", true), "ℹ️ watching")
	assert.Equal(t, "✓ done", FormatSuccess("done", true))

	var buf bytes.Buffer
	WriteSuccess(&buf, "done", true)
	WriteError(&buf, ErrorOptions{Problem: "failed", NoColor: true})
	assert.Equal(t, "✓ done\n❌ failed\n", buf.String())
}

func TestTable_AlignsRunes(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Name", "Pattern"}, &TableOptions{NoColor: true})
	table.AddRow("Anuṣṭubh", "LGLLGGLG")
	table.AddRow("Mālinī", "LLLLLLGGGLGGLGG")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Name      Pattern", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "────────  ───────────────", lines[1])
	assert.Equal(t, "Anuṣṭubh  LGLLGGLG", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "Mālinī    LLLLLLGGGLGGLGG", lines[3])
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, nil).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.Render()
	assert.Empty(t, buf.String())

	kv.AddRow("Chandas", "Anuṣṭubh")
	kv.AddRow("Similarity", "100.0%")
	kv.Render()
	assert.Equal(t, "Chandas:    Anuṣṭubh\nSimilarity: 100.0%\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Mālinī", true)
	assert.Equal(t, "Mālinī\n──────\n", buf.String())

	buf.Reset()
	Divider(&buf, 0, true)
	assert.Equal(t, strings.Repeat("─", 80)+"\n", buf.String())
}

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{Message: "generating", NoColor: true, Interval: 5 * time.Millisecond})
	assert.Equal(t, 100*time.Millisecond, NewSpinner(&buf, SpinnerOptions{}).interval)

	spinner.Stop() // never started
	spinner.Start()
	spinner.Start()
	time.Sleep(30 * time.Millisecond)
	spinner.UpdateMessage("attempt 2")
	spinner.Success("accepted")
	spinner.Stop()

	out := buf.String()
	assert.Contains(t, out, "generating")
	assert.True(t, strings.HasSuffix(out, "✓ accepted\n"))
}

func TestWithSpinner(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WithSpinner(&buf, "loading", true, func() error { return nil }))
	assert.Contains(t, buf.String(), "✓ loading")

	buf.Reset()
	boom := errors.New("boom")
	assert.ErrorIs(t, WithSpinner(&buf, "loading", true, func() error { return boom }), boom)
	assert.Contains(t, buf.String(), "❌ loading failed")
}
