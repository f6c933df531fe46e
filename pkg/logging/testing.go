package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log lines at trace level so tests can assert on
// the diagnostics a parser or source emitted.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a capturing logger. The global level is lowered to
// trace for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	buf := &bytes.Buffer{}
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns everything captured so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines returns one string per captured event.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

// Count returns the number of captured events.
func (tl *TestLogger) Count() int {
	return len(tl.Lines())
}

// Contains reports whether substr appears anywhere in the output.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// Clear drops captured output.
func (tl *TestLogger) Clear() {
	tl.Buffer.Reset()
}

// Entry returns the fields of the first event logged with msg.
func (tl *TestLogger) Entry(msg string) (map[string]any, bool) {
	for _, line := range tl.Lines() {
		var fields map[string]any
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			continue
		}
		if fields[zerolog.MessageFieldName] == msg {
			return fields, true
		}
	}
	return nil, false
}

// AssertContains fails the test when substr was not logged.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !tl.Contains(substr) {
		t.Errorf("log output does not contain %q\noutput:\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails the test when substr was logged.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if tl.Contains(substr) {
		t.Errorf("log output unexpectedly contains %q\noutput:\n%s", substr, tl.Output())
	}
}

// AssertField fails the test unless the event logged with msg carries key
// with a value printing as want. Counters decode as float64, so 3 and
// float64(3) compare equal.
func (tl *TestLogger) AssertField(t testing.TB, msg, key string, want any) {
	t.Helper()
	fields, ok := tl.Entry(msg)
	if !ok {
		t.Errorf("no %q event logged\noutput:\n%s", msg, tl.Output())
		return
	}
	got, ok := fields[key]
	if !ok {
		t.Errorf("%q event has no %q field: %v", msg, key, fields)
		return
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("%q event field %q = %v, want %v", msg, key, got, want)
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// DisableLoggingForTest silences the default logger until the test ends.
func DisableLoggingForTest(t testing.TB) {
	t.Helper()

	original := *Default()
	SetDefault(zerolog.Nop())
	t.Cleanup(func() { SetDefault(original) })
}
