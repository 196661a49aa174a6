package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/modality/internal/model"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { cfgFile = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "modality v0.1.0" {
		t.Errorf("expected version line, got %q", out)
	}
}

func TestDecodeFileJSON(t *testing.T) {
	out, err := run(t, "decode", "--log-level", "none", "--format", "json", "testdata/hanako.txt")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var s model.Sentence
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("output is not a sentence object: %v\n%s", err, out)
	}
	if len(s.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.Events))
	}
	want := []string{"食事", "誘っ", "嫌い"}
	for i, ev := range s.Events {
		if ev.Word != want[i] {
			t.Errorf("event %d: expected word %q, got %q", i, want[i], ev.Word)
		}
	}
	if s.ID == "" {
		t.Error("expected sentence id to be set")
	}
}

func TestDecodeStdinText(t *testing.T) {
	raw, err := os.ReadFile("testdata/hanako.txt")
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	rootCmd.SetIn(bytes.NewReader(raw))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := run(t, "decode", "--log-level", "none", "--format", "text", "-")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "3 events") {
		t.Errorf("expected event count in output, got %q", out)
	}
	if !strings.Contains(out, "嫌い") {
		t.Errorf("expected predicate in output, got %q", out)
	}
}

func TestDecodeMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("* 0 -1D 0/0 0.0\n花子\t名詞\nEOS\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "decode", "--log-level", "none", "--format", "json", path); err == nil {
		t.Error("expected error for word line without functional expression tags")
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := run(t, "decode", "--log-level", "none", "--format", "pdf", "testdata/hanako.txt")
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := run(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected created path in output, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid yaml: %v", err)
	}
	if cfg.Analyzer.Binary != "zunda" {
		t.Errorf("expected binary zunda, got %q", cfg.Analyzer.Binary)
	}

	if _, err := run(t, "config", "init", "--config", path); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("MODALITY_ANALYZER_BINARY", "/opt/zunda/bin/zunda")

	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("config show output is not valid yaml: %v\n%s", err, out)
	}
	if cfg.Analyzer.Binary != "/opt/zunda/bin/zunda" {
		t.Errorf("expected binary from env, got %q", cfg.Analyzer.Binary)
	}
}
