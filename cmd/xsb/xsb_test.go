package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xsb/xmlio"
)

func TestMainCommand(t *testing.T) {
	cmd := MainCommand()
	if cmd == nil {
		t.Fatal("nil command")
	}
}

func TestCollect(t *testing.T) {
	b, err := xmlio.CaptureString(`<r xmlns:p="urn:p" a="1"><p:e b="2" c="3">t<!--c--></p:e><?pi?></r>`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := collect(b)
	if err != nil {
		t.Fatal(err)
	}
	want := stats{elements: 2, attrs: 3, namespaces: 1, texts: 1, comments: 1, procInsts: 1, maxDepth: 2}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(stats{})); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "in.xml")
	if err := os.WriteFile(xmlPath, []byte(`<a/><b/>`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &MainConfig{Fragment: true}
	b, err := cfg.load(xmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if b.TreeCount() != 2 || b.SystemID() != xmlPath {
		t.Errorf("trees %d system id %q", b.TreeCount(), b.SystemID())
	}

	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	binPath := filepath.Join(dir, "in.xsb")
	if err := os.WriteFile(binPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	// encoded input is detected whatever the capture options
	b2, err := (&MainConfig{}).load(binPath)
	if err != nil {
		t.Fatal(err)
	}
	if !b2.IsFragment() || b2.TreeCount() != 2 {
		t.Errorf("decoded fragment %v trees %d", b2.IsFragment(), b2.TreeCount())
	}

	if _, err := (&MainConfig{}).load(xmlPath); err == nil {
		t.Error("two roots loaded as a document")
	}
}

func TestLogLevel(t *testing.T) {
	t.Cleanup(func() { logLevel.Set(slog.LevelInfo) })
	var out bytes.Buffer
	cfg := &MainConfig{log: newLog(&out).With("cmd", "dump")}
	b, err := xmlio.CaptureString(`<r/>`)
	if err != nil {
		t.Fatal(err)
	}
	cfg.logBuffer("captured", "in.xml", b)
	if out.Len() != 0 {
		t.Fatalf("debug logged at info level: %q", out.String())
	}
	logLevel.Set(slog.LevelDebug)
	cfg.logBuffer("captured", "in.xml", b)
	want := "level=DEBUG msg=captured cmd=dump input=in.xml fragment=false trees=1 size="
	if got := out.String(); !strings.HasPrefix(got, want) {
		t.Errorf("got  %q\nwant prefix %q", got, want)
	}
}
