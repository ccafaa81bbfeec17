// Package godkit converts Xbox 360 (and original Xbox) disc images into the
// Games on Demand container format the console's storage layer consumes.
package godkit

import (
	"fmt"
	"os"

	"github.com/bgrewell/god-kit/pkg/convert"
	"github.com/bgrewell/god-kit/pkg/logging"
	"github.com/bgrewell/god-kit/pkg/option"
)

// Convert converts the disc image at isoPath into a Games on Demand package
// under destDir and returns the conversion result.
func Convert(isoPath string, destDir string, opts ...option.ConvertOption) (*convert.Result, error) {
	f, size, err := openSource(isoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	converter := convert.New(opts...)
	return converter.Convert(convert.Source{Reader: f, Size: size}, destDir)
}

// Inspect extracts and returns the title metadata of the disc image at
// isoPath without writing anything. It is a forced dry run.
func Inspect(isoPath string, opts ...option.ConvertOption) (*convert.Result, error) {
	f, size, err := openSource(isoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts = append(opts, option.WithDryRun(true))
	converter := convert.New(opts...)
	return converter.Convert(convert.Source{Reader: f, Size: size}, "")
}

func openSource(isoPath string) (*os.File, int64, error) {
	f, err := os.Open(isoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open source image: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat source image: %w", err)
	}
	return f, fi.Size(), nil
}

// DefaultLogger returns a simple human-readable logger suitable for CLI use.
func DefaultLogger(verbosity int) *logging.Logger {
	return logging.NewLogger(logging.NewSimpleLogger(os.Stderr, verbosity, true))
}
