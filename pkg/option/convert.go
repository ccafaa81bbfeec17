package option

import (
	"github.com/bgrewell/god-kit/pkg/logging"
	"github.com/spf13/afero"
)

// TrimMode selects how much of the source payload is considered meaningful.
type TrimMode int

const (
	// TrimFromEnd sizes the payload as the physical image size minus the root
	// offset, keeping any trailing padding that follows the last used sector.
	TrimFromEnd TrimMode = iota
	// TrimUsedData sizes the payload from the highest byte offset actually
	// referenced by the source filesystem, discarding trailing unused capacity.
	TrimUsedData
)

func (m TrimMode) String() string {
	switch m {
	case TrimUsedData:
		return "used-data"
	default:
		return "from-end"
	}
}

// ProgressCallback is invoked once per completed part during the part-writing
// phase.
// Parameters:
// - partsWritten: the number of parts completed so far.
// - partCount: the total number of parts in this conversion.
type ProgressCallback func(partsWritten int, partCount int)

// ConvertOptions represents the options for a single conversion job.
type ConvertOptions struct {
	TrimMode         TrimMode
	Workers          int
	DryRun           bool
	GameTitle        string
	DestFs           afero.Fs
	ProgressCallback ProgressCallback
	Logger           *logging.Logger
}

// ConvertOption represents a function that modifies the ConvertOptions.
type ConvertOption func(*ConvertOptions)

// WithTrimMode sets the trim mode used to size the payload.
func WithTrimMode(mode TrimMode) ConvertOption {
	return func(o *ConvertOptions) {
		o.TrimMode = mode
	}
}

// WithWorkers sets the number of parallel part-writing workers. A value of 0
// selects the available hardware parallelism. A value of 1 degrades to
// sequential writing, which is slower but easier on spinning storage.
func WithWorkers(workers int) ConvertOption {
	return func(o *ConvertOptions) {
		o.Workers = workers
	}
}

// WithDryRun sets whether the conversion only inspects metadata. A dry run
// performs no destination writes at all.
func WithDryRun(dryRun bool) ConvertOption {
	return func(o *ConvertOptions) {
		o.DryRun = dryRun
	}
}

// WithGameTitle sets an explicit display title, overriding the catalog lookup.
func WithGameTitle(title string) ConvertOption {
	return func(o *ConvertOptions) {
		o.GameTitle = title
	}
}

// WithDestFilesystem sets the filesystem the package is written to. Defaults
// to the host filesystem; tests substitute an in-memory one.
func WithDestFilesystem(fs afero.Fs) ConvertOption {
	return func(o *ConvertOptions) {
		o.DestFs = fs
	}
}

// WithProgress sets a progress callback function that will be called with
// progress updates as part files complete.
func WithProgress(callback ProgressCallback) ConvertOption {
	return func(o *ConvertOptions) {
		o.ProgressCallback = callback
	}
}

// WithLogger sets the Logger for the conversion.
func WithLogger(logger *logging.Logger) ConvertOption {
	return func(o *ConvertOptions) {
		o.Logger = logger
	}
}
