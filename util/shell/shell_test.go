package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	r := &CmdRunner{Stdout: &out, Stderr: &out}

	err := r.Run(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "hello" {
		t.Fatal("unexpected stdout:", out.String())
	}
}

func TestRunFailure(t *testing.T) {
	r := &CmdRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestOutput(t *testing.T) {
	r := &CmdRunner{}

	out, err := r.Output(context.Background(), "sh", "-c", "echo captured")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "captured" {
		t.Fatal("unexpected output:", string(out))
	}
}

func TestOutputFailureIncludesStderr(t *testing.T) {
	r := &CmdRunner{}

	_, err := r.Output(context.Background(), "sh", "-c", "echo boom >&2; exit 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatal("expected stderr in error:", err)
	}
}
