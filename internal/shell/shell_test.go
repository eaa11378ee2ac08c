package shell

import (
	"bytes"
	"testing"
)

func TestStatusAlignsVerb(t *testing.T) {
	var buf bytes.Buffer
	sh := New(&buf)
	sh.Status("Updating", "`%s` index", "registry+https://pkgs.example.com/index")

	want := "    Updating `registry+https://pkgs.example.com/index` index\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStatusNoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Status("Installing", "tool v1.0.0")
	if bytes.ContainsRune(buf.Bytes(), 0x1b) {
		t.Fatalf("escape sequences written to non-terminal: %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Warn("be careful with `%s`", "tool")
	want := "warning: be careful with `tool`\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewNilWriter(t *testing.T) {
	New(nil).Status("Updating", "nothing observable")
}
