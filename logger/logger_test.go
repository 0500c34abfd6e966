package logger

import (
	"bytes"
	"errors"
	"testing"
)

func jsonLogger(b *bytes.Buffer) *Logger {
	c := DefaultConfig()
	c.Formatter = "json"
	c.JSONFormat.DisableTimestamp = true
	l := NewLogger("foons", c)
	l.SetOutput(b)
	return l
}

func TestLog(t *testing.T) {
	var b bytes.Buffer
	l := jsonLogger(&b).WithFields("basearg", 1)
	l.Info("test")

	expect := `{"basearg":1,"level":"info","msg":"test","ns":"foons"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestErrorFieldLog(t *testing.T) {
	var b bytes.Buffer
	l := jsonLogger(&b)

	err := errors.New("fooerr")
	l.Error("test", err)

	expect := `{"error":"fooerr","level":"error","msg":"test","ns":"foons"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestSubNamespace(t *testing.T) {
	var b bytes.Buffer
	l := jsonLogger(&b).Sub("subns", "stage", "tag")
	l.Info("test")

	expect := `{"level":"info","msg":"test","ns":"subns","stage":"tag"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}

func TestOddFieldCount(t *testing.T) {
	var b bytes.Buffer
	l := jsonLogger(&b)
	l.Info("test", "key1", "val1", "dangling")

	expect := `{"key1":"val1","level":"info","msg":"test","ns":"foons","unknown":"dangling"}` + "\n"
	if b.String() != expect {
		t.Fatal("unexpected log:", b.String())
	}
}
