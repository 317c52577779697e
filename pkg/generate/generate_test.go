package generate

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rulegen/pkg/config"
	"rulegen/pkg/emit"
)

func testConfig(t *testing.T, parallel bool) *config.Config {
	t.Helper()
	return &config.Config{
		Paths: config.PathsConfig{
			InputDir:  filepath.Join(t.TempDir(), "domains"),
			OutputDir: filepath.Join(t.TempDir(), "rules"),
		},
		Generate: config.GenerateConfig{
			Categories:      []string{"block", "direct", "proxy"},
			Formats:         emit.Names(),
			Parallel:        parallel,
			ParseErrorLimit: 5,
		},
		Logging: config.LoggingConfig{Level: "info", File: "stdout"},
	}
}

func writeInput(t *testing.T, dir, category, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, category+".txt"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readOutput(t *testing.T, cfg *config.Config, category, file string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, category, file))
	if err != nil {
		t.Fatalf("read output %s/%s: %v", category, file, err)
	}
	return string(content)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testConfig(t, true)
	writeInput(t, cfg.Paths.InputDir, "block", "ads.example.com\nexample.com\n#comment\ntracker.net\n")
	writeInput(t, cfg.Paths.InputDir, "direct", "cn.example.org\n1.2.3.0/24\n1.2.3.0/24\n")
	// proxy.txt is deliberately missing.

	res, err := Run(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	if res.Categories != 3 {
		t.Errorf("categories = %d, want 3", res.Categories)
	}
	if want := 3 * len(emit.Names()); res.Files != want {
		t.Errorf("files = %d, want %d", res.Files, want)
	}

	if got := readOutput(t, cfg, "block", "domain.txt"); got != "example.com\ntracker.net\n" {
		t.Errorf("block/domain.txt = %q", got)
	}
	if got := readOutput(t, cfg, "block", "adblock.txt"); got != "||example.com^\n||tracker.net^\n" {
		t.Errorf("block/adblock.txt = %q", got)
	}
	if got := readOutput(t, cfg, "direct", "ipcidr.txt"); got != "1.2.3.0/24\n" {
		t.Errorf("direct/ipcidr.txt = %q", got)
	}

	// The missing category still produces valid empty documents.
	if got := readOutput(t, cfg, "proxy", "singbox.json"); !strings.Contains(got, `"rules": []`) {
		t.Errorf("proxy/singbox.json = %q, want empty rules array", got)
	}
	if got := readOutput(t, cfg, "proxy", "domain.yaml"); !strings.Contains(got, "payload: []") {
		t.Errorf("proxy/domain.yaml = %q, want empty payload", got)
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := testConfig(t, false)
	writeInput(t, cfg.Paths.InputDir, "block", "example.com\nsub.example.com\n10.0.0.0/8\n")
	writeInput(t, cfg.Paths.InputDir, "direct", "direct.example.net\n")
	writeInput(t, cfg.Paths.InputDir, "proxy", "proxy.example.io\n")

	if _, err := Run(context.Background(), cfg, discardLogger()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}

	first := make(map[string][]byte)
	err := filepath.Walk(cfg.Paths.OutputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		first[path] = content
		return nil
	})
	if err != nil {
		t.Fatalf("walk outputs: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("first run produced no files")
	}

	if _, err := Run(context.Background(), cfg, discardLogger()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	for path, content := range first {
		second, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read after second run: %v", err)
		}
		if !bytes.Equal(content, second) {
			t.Errorf("%s changed between identical runs", path)
		}
	}
}

func TestRunCategoryFailureDoesNotAbortOthers(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Generate.Categories = []string{"block", "direct"}
	writeInput(t, cfg.Paths.InputDir, "block", "example.com\n")
	writeInput(t, cfg.Paths.InputDir, "direct", "direct.example.net\n")

	// Occupy the block category directory with a regular file so its
	// outputs cannot be created.
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.OutputDir, "block"), []byte("in the way"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Failed() {
		t.Fatal("expected failures for the blocked category")
	}
	for _, f := range res.Failures {
		if f.Category != "block" {
			t.Errorf("unexpected failure for category %q: %v", f.Category, f.Err)
		}
	}

	// The healthy category completed in full.
	if got := readOutput(t, cfg, "direct", "domain.txt"); got != "direct.example.net\n" {
		t.Errorf("direct/domain.txt = %q", got)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Generate.Formats = []string{"nope"}
	if _, err := Run(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
