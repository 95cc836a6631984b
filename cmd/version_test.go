package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteVersion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("OODDB_HOME", home)
	t.Setenv("OODDB_SPLITS", "")

	var buf bytes.Buffer
	if err := writeVersion(&buf, true); err != nil {
		t.Fatal(err)
	}
	if buf.String() != version+"\n" {
		t.Fatalf("short output=%q", buf.String())
	}

	buf.Reset()
	if err := writeVersion(&buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"ooddb " + version + " (n/a, built n/a)",
		"config:   " + filepath.Join(home, "config.json"),
		"splits:   " + filepath.Join(home, "splits"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
