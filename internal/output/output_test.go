package output

import (
	"os"
	"strings"
	"testing"
)

func TestDetectFlags(t *testing.T) {
	tests := []struct {
		name                 string
		json, table, compact bool
		want                 Format
	}{
		{"json", true, false, false, FormatJSON},
		{"table", false, true, false, FormatTable},
		{"compact", false, false, true, FormatCompact},
		{"json wins", true, true, true, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.json, tt.table, tt.compact); got != tt.want {
				t.Errorf("Detect() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectEnv(t *testing.T) {
	tests := []struct {
		env  string
		want Format
	}{
		{"json", FormatJSON},
		{"table", FormatTable},
		{"compact", FormatCompact},
		{"oneline", FormatCompact},
		{"", FormatTable},
		{"yaml", FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvOutput, tt.env)
			if got := Detect(false, false, false); got != tt.want {
				t.Errorf("Detect with %s=%q = %d, want %d", EnvOutput, tt.env, got, tt.want)
			}
		})
	}
}

func TestDetectFlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvOutput, "table")
	if got := Detect(true, false, false); got != FormatJSON {
		t.Errorf("Detect(json=true) with %s=table = %d, want FormatJSON", EnvOutput, got)
	}
}

func TestColorEnabled(t *testing.T) {
	orig := isTerminalFn
	t.Cleanup(func() { isTerminalFn = orig })
	t.Setenv("NO_COLOR", "")
	_ = os.Unsetenv("NO_COLOR")

	isTerminalFn = func() bool { return true }
	if !ColorEnabled() {
		t.Error("ColorEnabled() on a terminal = false")
	}

	isTerminalFn = func() bool { return false }
	if ColorEnabled() {
		t.Error("ColorEnabled() without a terminal = true")
	}

	isTerminalFn = func() bool { return true }
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled() {
		t.Error("ColorEnabled() with NO_COLOR set = true")
	}
}

func TestMessagef(t *testing.T) {
	var buf strings.Builder
	Messagef(&buf, "hello %s", "world")
	if buf.String() != "hello world\n" {
		t.Errorf("Messagef output = %q, want %q", buf.String(), "hello world\n")
	}
}

func TestJSON(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, map[string]string{"key": "value"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("JSON output missing content:\n%s", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestJSONUnsupportedValue(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, make(chan int)); err == nil {
		t.Error("JSON(chan) should fail")
	}
}

func TestJSONError(t *testing.T) {
	var buf strings.Builder
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: x", map[string]any{"id": "x"})
	out := buf.String()
	for _, want := range []string{`"code": "TASK_NOT_FOUND"`, `"error": "task not found: x"`, `"id": "x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSONError output missing %s:\n%s", want, out)
		}
	}
}
