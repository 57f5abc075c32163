package log

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, name string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	return ForEngine(name), buf
}

func TestInfoPrefix(t *testing.T) {
	SetGlobalDebug(false)

	const name = "prefix_engine_test"
	l, buf := newTestLogger(t, name)

	l.Infof("hello world")
	out := buf.String()

	if !strings.Contains(out, "["+name+"]") {
		t.Fatalf("expected prefix [%s] in output, got: %q", name, out)
	}
	if !strings.Contains(out, "hello world") {
		t.Fatalf("expected message in output, got: %q", out)
	}
}

func TestDebugPerEngine(t *testing.T) {
	SetGlobalDebug(false)

	const name = "debug_engine_specific"
	DisableDebugFor(name)
	l, buf := newTestLogger(t, name)

	l.Debugf("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Fatalf("debug message appeared while debug disabled")
	}

	EnableDebugFor(name)
	l.Debugf("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Fatalf("expected debug message after enabling per-engine debug; got: %q", buf.String())
	}
}

func TestDebugGlobal(t *testing.T) {
	const name = "debug_engine_global"
	DisableDebugFor(name)
	l, buf := newTestLogger(t, name)

	SetGlobalDebug(false)
	l.Debugf("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug message appeared while global debug disabled")
	}

	SetGlobalDebug(true)
	defer SetGlobalDebug(false)
	l.Debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug message with global debug enabled; got: %q", buf.String())
	}
}

func TestForEngineMemoizes(t *testing.T) {
	a := ForEngine("memo_engine")
	b := ForEngine("memo_engine")
	if a != b {
		t.Fatal("expected the same logger instance for the same name")
	}
}
