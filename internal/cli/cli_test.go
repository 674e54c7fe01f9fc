package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roboco-io/webpconv/internal/config"
	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/roboco-io/webpconv/internal/encoder"
	"github.com/roboco-io/webpconv/internal/webptest"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// isolate points HOME at an empty directory and clears the override
// variables so the user's settings never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvDecoder, "")
	t.Setenv(config.EnvQuality, "")
	t.Setenv(config.EnvVerbose, "")
	return home
}

func execute(t *testing.T, f encoder.Format, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), f, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestProgramName(t *testing.T) {
	tests := []struct {
		format   encoder.Format
		expected string
	}{
		{encoder.FormatJPEG, "webp2jpeg"},
		{encoder.FormatPNG, "webp2png"},
		{encoder.FormatUnknown, "webpconv"},
	}

	for _, tc := range tests {
		if got := ProgramName(tc.format); got != tc.expected {
			t.Errorf("ProgramName(%v): expected %s, got %s", tc.format, tc.expected, got)
		}
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(encoder.FormatJPEG)
	if !strings.HasPrefix(cmd.Use, "webp2jpeg ") {
		t.Errorf("expected Use to start with 'webp2jpeg ', got '%s'", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	for _, name := range []string{"version", "config", "decoders", "info"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("expected subcommand %s", name)
		}
	}
}

func TestFormatFlags(t *testing.T) {
	tests := []struct {
		format encoder.Format
		has    []string
		hasNot []string
	}{
		{encoder.FormatJPEG, []string{"quality", "decoder", "max-width", "max-height", "verbose", "quiet"}, []string{"compression"}},
		{encoder.FormatPNG, []string{"compression", "decoder", "max-width", "max-height", "verbose", "quiet"}, []string{"quality"}},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			cmd := NewRootCommand(tc.format)
			for _, name := range tc.has {
				if cmd.Flags().Lookup(name) == nil {
					t.Errorf("expected flag --%s", name)
				}
			}
			for _, name := range tc.hasNot {
				if cmd.Flags().Lookup(name) != nil {
					t.Errorf("unexpected flag --%s", name)
				}
			}
			if cmd.PersistentFlags().Lookup("config") == nil {
				t.Error("expected persistent flag --config")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	oldVersion := version
	defer func() { version = oldVersion }()
	SetVersion("0.9.0")

	code, stdout, _ := execute(t, encoder.FormatPNG, "version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "webp2png 0.9.0\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestRun_WrongArgCount(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"none", nil},
		{"one", []string{"only"}},
		{"three", []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, encoder.FormatJPEG, tc.args...)
			if code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if !strings.Contains(stderr, "Usage:") {
				t.Errorf("expected usage line on stderr, got %q", stderr)
			}
		})
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	isolate(t)
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")

	code, _, stderr := execute(t, encoder.FormatPNG, filepath.Join(tmp, "missing"), outDir)
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(stderr, "webp2png: ") {
		t.Errorf("expected error prefixed with program name, got %q", stderr)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output directory should not be created, stat error: %v", err)
	}
}

func TestRun_OutputParentMissing(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()
	webptest.WriteFile(t, inDir, "a.webp", webptest.Pattern(2, 2, red, blue))

	code, _, _ := execute(t, encoder.FormatPNG, inDir, filepath.Join(t.TempDir(), "no", "such", "out"))
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
}

func TestRun_ConvertPNG(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	img := webptest.Pattern(4, 3, red, blue)
	webptest.WriteFile(t, inDir, "a.webp", img)
	webptest.WriteFile(t, inDir, "b.webp", img)
	if err := os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := execute(t, encoder.FormatPNG, inDir, outDir)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
	}
	if stderr != "" {
		t.Errorf("expected empty stderr, got %q", stderr)
	}
	if got := strings.Count(stdout, "converted: "); got != 2 {
		t.Errorf("expected 2 success lines, got %d: %q", got, stdout)
	}

	f, err := os.Open(filepath.Join(outDir, "a.png"))
	if err != nil {
		t.Fatalf("expected a.png: %v", err)
	}
	defer f.Close()
	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode a.png: %v", err)
	}
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 3 {
		t.Errorf("unexpected size %v", out.Bounds())
	}
	r, g, b, a := out.At(1, 0).RGBA()
	if r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("expected blue at (1,0), got %d %d %d %d", r, g, b, a)
	}
	if _, err := os.Stat(filepath.Join(outDir, "notes.png")); !os.IsNotExist(err) {
		t.Error("non-WebP file should not be converted")
	}
}

func TestRun_NoHomeUsesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("HOME", "")
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	webptest.WriteFile(t, inDir, "a.webp", webptest.Pattern(2, 2, red, blue))

	code, stdout, stderr := execute(t, encoder.FormatPNG, inDir, outDir)
	if code != 0 {
		t.Fatalf("expected exit 0 without a home directory, got %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stdout, "a.png") {
		t.Errorf("expected success line for a.png, got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.png")); err != nil {
		t.Errorf("expected a.png: %v", err)
	}
}

func TestRun_ConvertJPEGWithFlags(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()
	outDir := t.TempDir()

	webptest.WriteFile(t, inDir, "wide.webp", webptest.Pattern(40, 20, red, red))

	code, stdout, stderr := execute(t, encoder.FormatJPEG, "-q", "90", "--max-width", "10", "-v", inDir, outDir)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stdout, "wide.jpg") {
		t.Errorf("expected success line naming wide.jpg, got %q", stdout)
	}
	for _, want := range []string{"decoder: x", "quality: 90", "done: 1 converted, 0 failed"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in verbose output, got %q", want, stderr)
		}
	}

	f, err := os.Open(filepath.Join(outDir, "wide.jpg"))
	if err != nil {
		t.Fatalf("expected wide.jpg: %v", err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode wide.jpg: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 5 {
		t.Errorf("expected 10x5, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRun_CorruptFileIsSkipped(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()
	outDir := t.TempDir()

	webptest.WriteFile(t, inDir, "good.webp", webptest.Pattern(2, 2, red, blue))
	if err := os.WriteFile(filepath.Join(inDir, "bad.webp"), []byte("not a webp file"), 0644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := execute(t, encoder.FormatPNG, inDir, outDir)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stderr, "failed: ") || !strings.Contains(stderr, "bad.webp") {
		t.Errorf("expected failure line for bad.webp, got %q", stderr)
	}
	if !strings.Contains(stdout, "good.png") {
		t.Errorf("expected success line for good.png, got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(outDir, "bad.png")); !os.IsNotExist(err) {
		t.Error("no output should exist for a corrupt input")
	}
}

func TestRun_Quiet(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()
	webptest.WriteFile(t, inDir, "a.webp", webptest.Pattern(2, 2, red, blue))

	code, stdout, _ := execute(t, encoder.FormatPNG, "--quiet", inDir, t.TempDir())
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout with --quiet, got %q", stdout)
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	isolate(t)
	inDir := t.TempDir()

	tests := []struct {
		name   string
		format encoder.Format
		args   []string
	}{
		{"unknown decoder", encoder.FormatPNG, []string{"--decoder", "nope"}},
		{"quality out of range", encoder.FormatJPEG, []string{"--quality", "101"}},
		{"unknown compression", encoder.FormatPNG, []string{"--compression", "max"}},
		{"negative bound", encoder.FormatPNG, []string{"--max-height", "-1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append(tc.args, inDir, filepath.Join(t.TempDir(), "out"))
			code, _, stderr := execute(t, tc.format, args...)
			if code != 1 {
				t.Errorf("expected exit 1, got %d (stderr: %s)", code, stderr)
			}
		})
	}
}

func TestRun_ConfigFileSettings(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("resize:\n  max_height: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	inDir := t.TempDir()
	outDir := t.TempDir()
	webptest.WriteFile(t, inDir, "tall.webp", webptest.Pattern(8, 16, red, blue))

	code, _, stderr := execute(t, encoder.FormatPNG, "--config", cfgPath, inDir, outDir)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
	}

	f, err := os.Open(filepath.Join(outDir, "tall.png"))
	if err != nil {
		t.Fatalf("expected tall.png: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 2 || cfg.Height != 4 {
		t.Errorf("expected 2x4, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestConfigCommand(t *testing.T) {
	home := isolate(t)
	expectedPath := filepath.Join(home, config.ConfigDirName, config.ConfigFileName)

	code, stdout, _ := execute(t, encoder.FormatJPEG, "config", "path")
	if code != 0 || strings.TrimSpace(stdout) != expectedPath {
		t.Errorf("config path: exit %d, output %q, expected %s", code, stdout, expectedPath)
	}

	code, _, stderr := execute(t, encoder.FormatJPEG, "config", "init")
	if code != 0 {
		t.Fatalf("config init: exit %d (%s)", code, stderr)
	}
	if code, _, stderr = execute(t, encoder.FormatJPEG, "config", "init"); code != 1 || !strings.Contains(stderr, "--force") {
		t.Errorf("second config init should fail and suggest --force, got exit %d (%s)", code, stderr)
	}
	if code, _, _ = execute(t, encoder.FormatJPEG, "config", "init", "--force"); code != 0 {
		t.Errorf("config init --force: exit %d", code)
	}

	if code, _, stderr = execute(t, encoder.FormatJPEG, "config", "set", "jpeg.quality", "88"); code != 0 {
		t.Fatalf("config set: exit %d (%s)", code, stderr)
	}
	if code, _, _ = execute(t, encoder.FormatJPEG, "config", "set", "decoder", "nope"); code != 1 {
		t.Errorf("config set with unknown decoder should fail, got exit %d", code)
	}
	if code, _, _ = execute(t, encoder.FormatJPEG, "config", "set", "jpeg.quality", "900"); code != 1 {
		t.Errorf("config set with out of range quality should fail, got exit %d", code)
	}

	code, stdout, _ = execute(t, encoder.FormatJPEG, "config", "show")
	if code != 0 {
		t.Fatalf("config show: exit %d", code)
	}
	for _, want := range []string{expectedPath, "quality: 88", config.EnvDecoder} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in config show output:\n%s", want, stdout)
		}
	}
}

func TestDecodersCommand(t *testing.T) {
	isolate(t)

	code, stdout, _ := execute(t, encoder.FormatPNG, "decoders")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range decoder.List() {
		if !strings.Contains(stdout, name) {
			t.Errorf("expected decoder %s in output:\n%s", name, stdout)
		}
	}
	if !strings.Contains(stdout, "*") {
		t.Error("expected the default decoder to be marked")
	}
}

func TestInfoCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := webptest.WriteFile(t, dir, "a.webp", webptest.Pattern(5, 7, red, color.NRGBA{A: 0}))

	code, stdout, stderr := execute(t, encoder.FormatPNG, "info", "--format", "json", path)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if info["kind"] != "lossless" || info["width"] != float64(5) || info["height"] != float64(7) {
		t.Errorf("unexpected info: %v", info)
	}

	code, stdout, _ = execute(t, encoder.FormatPNG, "info", path)
	if code != 0 || !strings.Contains(stdout, "size: 5x7") {
		t.Errorf("text info: exit %d, output %q", code, stdout)
	}

	if code, _, _ = execute(t, encoder.FormatPNG, "info", "--format", "xml", path); code != 1 {
		t.Errorf("unsupported format should fail, got exit %d", code)
	}

	bad := filepath.Join(dir, "bad.webp")
	if err := os.WriteFile(bad, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if code, _, _ = execute(t, encoder.FormatPNG, "info", bad); code != 1 {
		t.Errorf("non-WebP file should fail, got exit %d", code)
	}
}
