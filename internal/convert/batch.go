package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roboco-io/webpconv/internal/encoder"
)

// SourceExt is the extension of input files. Matching is case-sensitive.
const SourceExt = ".webp"

// ErrNotDirectory is returned when a directory argument names something else.
var ErrNotDirectory = errors.New("not a directory")

// Summary counts the outcome of a batch.
type Summary struct {
	Converted int `json:"converted"`
	Failed    int `json:"failed"`
}

// IsSource reports whether a file name has the WebP extension and a
// non-empty stem. ".webp" alone is a hidden file without an extension.
func IsSource(name string) bool {
	return filepath.Ext(name) == SourceExt && len(name) > len(SourceExt)
}

// OutputPath returns the output file path for the input file name in dir.
func OutputPath(dir, name string, f encoder.Format) string {
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+f.Extension())
}

// CheckInputDir verifies that dir exists and is a directory.
func CheckInputDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("input path %s: %w", dir, ErrNotDirectory)
	}
	return nil
}

// PrepareOutputDir creates dir if it does not exist. The parent directory
// must already exist. Any existing entry is left as is: a directory is
// reused, and anything else makes every file of the batch fail to write.
func PrepareOutputDir(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("output directory: %w", err)
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ConvertDir converts every regular *.webp file directly inside inDir into
// outDir, one file at a time. Per-file failures are reported and skipped.
// The returned error is non-nil only for setup failures or cancellation.
func (c *Converter) ConvertDir(ctx context.Context, inDir, outDir string, rep Reporter) (Summary, error) {
	var sum Summary

	if err := CheckInputDir(inDir); err != nil {
		return sum, err
	}
	if err := PrepareOutputDir(outDir); err != nil {
		return sum, err
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return sum, fmt.Errorf("failed to read input directory: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if !IsSource(entry.Name()) || !isRegular(inDir, entry) {
			continue
		}

		src := filepath.Join(inDir, entry.Name())
		dst := OutputPath(outDir, entry.Name(), c.Format())
		if err := c.ConvertFile(src, dst); err != nil {
			sum.Failed++
			rep.Failed(src, dst, err)
			continue
		}
		sum.Converted++
		rep.Converted(src, dst)
	}

	return sum, nil
}

// isRegular follows symlinks.
func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}
