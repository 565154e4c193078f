package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSetup_WritesJSONLinesAndCleansUp(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Command: "fit"})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if err := IsReady(); err != nil {
		t.Fatalf("expected ready logger: %v", err)
	}

	want := filepath.Join(root, ".co2fit", "logs", "co2fit.log")
	if Path() != want {
		t.Fatalf("expected path %s, got %s", want, Path())
	}
	if InitTime().IsZero() {
		t.Fatalf("expected init time to be set")
	}

	L().Info("fit.start", "draws", 10)
	L().Debug("hidden.without.debug")

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup error: %v", err)
	}
	if IsReady() == nil {
		t.Fatalf("expected logger reset after cleanup")
	}

	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var msgs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q", sc.Text())
		}
		if rec["cmd"] != "fit" {
			t.Fatalf("expected cmd attr, got %v", rec)
		}
		msgs = append(msgs, rec["msg"].(string))
	}
	if len(msgs) != 2 || msgs[0] != "logger.initialized" || msgs[1] != "fit.start" {
		t.Fatalf("unexpected messages %v", msgs)
	}
}
