package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRunFullGeneration(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "domains")
	outputDir := filepath.Join(tmpDir, "rules")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	inputs := map[string]string{
		"block":  "ads.example.com\nexample.com\n#comment\ntracker.net\n",
		"direct": "cn.example.org\n1.2.3.0/24\n",
		"proxy":  "proxy.example.io\n2001:db8::/32\n",
	}
	for category, content := range inputs {
		if err := os.WriteFile(filepath.Join(inputDir, category+".txt"), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	// Set test configuration
	viper.Set("paths.input_dir", inputDir)
	viper.Set("paths.output_dir", outputDir)
	viper.Set("logging.level", "debug")
	viper.Set("logging.file", filepath.Join(tmpDir, "rulegen.log"))
	defer viper.Reset()

	if code := run(); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	tests := []struct {
		category string
		file     string
		want     string
	}{
		{"block", "domain.txt", "example.com\ntracker.net\n"},
		{"block", "adblock.txt", "||example.com^\n||tracker.net^\n"},
		{"direct", "ipcidr.txt", "1.2.3.0/24\n"},
		{"proxy", "classical.txt", "IP-CIDR6,2001:db8::/32"},
	}
	for _, tt := range tests {
		content, err := os.ReadFile(filepath.Join(outputDir, tt.category, tt.file))
		if err != nil {
			t.Errorf("missing output %s/%s: %v", tt.category, tt.file, err)
			continue
		}
		if !strings.Contains(string(content), tt.want) {
			t.Errorf("%s/%s = %q, want it to contain %q", tt.category, tt.file, content, tt.want)
		}
	}

	// Every configured format exists for every category.
	for category := range inputs {
		entries, err := os.ReadDir(filepath.Join(outputDir, category))
		if err != nil {
			t.Fatalf("read category dir: %v", err)
		}
		if len(entries) != 9 {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("%s has files %v, want all 9 formats", category, names)
		}
	}
}
