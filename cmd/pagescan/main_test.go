package main

import (
	"bytes"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/imaging"
)

// createTestImageFile writes a solid gray PNG into dir.
func createTestImageFile(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// execute runs the command tree with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Workers = 2

	root := newRootCmd(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "pagescan dev\n") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "Git commit: unknown") {
		t.Errorf("missing commit line: %q", out)
	}
}

func TestProcessCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	in := createTestImageFile(t, dir, "scan.jpg", 120, 90)
	outDir := filepath.Join(dir, "out")

	out, stderr, err := execute(t, "", "process", in, "--output-dir", outDir, "--format", "json", "--strategy", "area")
	if err != nil {
		t.Fatalf("process failed: %v\n%s", err, stderr)
	}

	var results []struct {
		Input   string `json:"input"`
		Output  string `json:"output"`
		Outcome string `json:"outcome"`
		Width   int    `json:"width"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if len(results) != 1 {
		t.Fatalf("results: got %d, want 1", len(results))
	}
	r := results[0]
	if r.Output != filepath.Join(outDir, "scan.png") {
		t.Errorf("output: got %s", r.Output)
	}
	if r.Outcome != "fallback" || r.Width != 120 {
		t.Errorf("unexpected result: %+v", r)
	}
	if _, err := os.Stat(r.Output); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if !strings.Contains(stderr, "BLUR") {
		t.Errorf("expected BLUR warning on stderr, got %q", stderr)
	}
}

func TestProcessCommand_Text(t *testing.T) {
	dir := t.TempDir()
	createTestImageFile(t, dir, "a.jpg", 60, 40)
	createTestImageFile(t, dir, "b.jpg", 60, 40)

	out, _, err := execute(t, "", "process", dir, "--log-level", "error")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "a.jpg") || !strings.Contains(lines[1], "b.jpg") {
		t.Errorf("results out of order:\n%s", out)
	}
	if !strings.Contains(lines[0], "blurry") {
		t.Errorf("flat image should be marked blurry: %q", lines[0])
	}
}

func TestProcessCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := createTestImageFile(t, dir, "a.jpg", 30, 30)

	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"process"}},
		{"bad format", []string{"process", in, "--format", "xml"}},
		{"even block size", []string{"process", in, "--block-size", "4"}},
		{"unknown strategy", []string{"process", in, "--strategy", "largest"}},
		{"bad fraction", []string{"process", in, "--min-page-fraction", "0"}},
		{"missing file", []string{"process", filepath.Join(dir, "nope.jpg")}},
		{"empty dir", []string{"process", t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestQualityCommand(t *testing.T) {
	dir := t.TempDir()
	in := createTestImageFile(t, dir, "flat.png", 40, 40)

	out, _, err := execute(t, "", "quality", in, "--format", "json", "--tenengrad-ksize", "1")
	if err != nil {
		t.Fatalf("quality failed: %v", err)
	}
	var results []qualityResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if len(results) != 1 || results[0].Report == nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !results[0].Report.Blurry {
		t.Error("a flat image should be blurry")
	}

	out, _, err = execute(t, "", "quality", in)
	if err != nil {
		t.Fatalf("quality failed: %v", err)
	}
	if !strings.HasPrefix(out, "FILE") || !strings.Contains(out, "true") {
		t.Errorf("unexpected table:\n%s", out)
	}

	if _, _, err := execute(t, "", "quality", in, filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestServeCommand(t *testing.T) {
	stdin := `{"jsonrpc":"2.0","id":7,"method":"ping"}` + "\n"
	out, _, err := execute(t, stdin, "serve")
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	var resp struct {
		ID    float64     `json:"id"`
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response %q: %v", out, err)
	}
	if resp.ID != 7 || resp.Error != nil {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "area"
	root := newRootCmd(cfg)
	root.SetArgs([]string{"process", "--strategy", "minrect", "--equalize", "--threshold-c", "6", "--help"})
	root.SetOut(&bytes.Buffer{})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if cfg.Strategy != "minrect" || !cfg.Equalize || cfg.C != 6 {
		t.Errorf("flags not applied: strategy=%s equalize=%v c=%v", cfg.Strategy, cfg.Equalize, cfg.C)
	}
}
