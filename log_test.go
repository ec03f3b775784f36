package bthost

import (
	"bytes"
	"strings"
	"testing"
)

func TestPkgLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(newLogrusLogger(&buf))
	defer SetLogger(nil)

	l := PkgLogger("att").ChildLogger(map[string]interface{}{"session": "s1"})
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %q", buf.String())
	}

	if err := SetLogLevel("debug"); err != nil {
		t.Fatal(err)
	}
	l.Debugf("handle 0x%04X", 1)
	out := buf.String()
	for _, want := range []string{"pkg=att", "session=s1", "handle 0x0001"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}

	if err := SetLogLevel("loud"); err == nil {
		t.Fatalf("bad level accepted")
	}
}
