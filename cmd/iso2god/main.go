package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	godkit "github.com/bgrewell/god-kit"
	"github.com/bgrewell/god-kit/pkg/logging"
	"github.com/bgrewell/god-kit/pkg/option"
	"github.com/bgrewell/usage"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

var (
	version = "dev"
)

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return spinner, nil
}

// CreateProgressCallback returns a ProgressCallback that updates the
// spinner's message with part-file completion counts.
func CreateProgressCallback(spinner *yacspin.Spinner) option.ProgressCallback {
	return func(partsWritten int, partCount int) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 80
		}
		message := fmt.Sprintf(" writing part files: %d/%d", partsWritten, partCount)
		if len(message) > width-6 && width > 6 {
			message = message[:width-6]
		}
		spinner.Message(message)
	}
}

// parseWorkers interprets the worker-count flag value: "auto" (or empty)
// selects the available hardware parallelism.
func parseWorkers(value string) (int, error) {
	if value == "" || value == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid worker count %q", value)
	}
	return n, nil
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("iso2god"),
		usage.WithApplicationDescription("iso2god converts an Xbox 360 or original Xbox disc image into a Games on Demand package that the console's storage layer can stream."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	debug := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Enable trace logging", "", nil)
	dryRun := u.AddBooleanOption("n", "dry-run", false, "Inspect the image metadata without writing anything", "", nil)
	title := u.AddStringOption("g", "game-title", "", "Explicit game title (overrides the built-in catalog)", "optional", nil)
	trim := u.AddStringOption("m", "trim-mode", "from-end", "Payload sizing: 'from-end' or 'used-data'", "optional", nil)
	workers := u.AddStringOption("j", "workers", "1", "Parallel part writers: a count or 'auto'", "optional", nil)
	isoPath := u.AddArgument(1, "source-iso", "Path to the source disc image", "")
	destDir := u.AddArgument(2, "dest-dir", "Destination directory for the package", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		fmt.Println("iso2god v" + version)
		u.PrintUsage()
		os.Exit(0)
	}

	if isoPath == nil || *isoPath == "" || destDir == nil || *destDir == "" {
		u.PrintError(fmt.Errorf("both <source-iso> and <dest-dir> must be provided"))
		os.Exit(1)
	}

	verbosity := logging.LEVEL_INFO
	if *debug {
		verbosity = logging.LEVEL_DEBUG
	}
	if *trace {
		verbosity = logging.LEVEL_TRACE
	}

	workerCount, err := parseWorkers(*workers)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	if workerCount == 1 {
		fmt.Fprintln(os.Stderr, "Using a single part writer; on SSD storage -j auto is usually much faster.")
	}

	var trimMode option.TrimMode
	switch *trim {
	case "from-end":
		trimMode = option.TrimFromEnd
	case "used-data":
		trimMode = option.TrimUsedData
	default:
		u.PrintError(fmt.Errorf("invalid trim mode %q", *trim))
		os.Exit(1)
	}

	opts := []option.ConvertOption{
		option.WithLogger(godkit.DefaultLogger(verbosity)),
		option.WithTrimMode(trimMode),
		option.WithWorkers(workerCount),
		option.WithDryRun(*dryRun),
		option.WithGameTitle(*title),
	}

	var spinner *yacspin.Spinner
	if !*dryRun {
		spinner, err = InitializeSpinner()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithProgress(CreateProgressCallback(spinner)))
	}

	result, err := godkit.Convert(*isoPath, *destDir, opts...)
	if spinner != nil {
		if err != nil {
			spinner.StopFail()
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(result.Summary())
	if !result.DryRun {
		fmt.Printf("\nConversion successful!\nPackage: %s\n", result.PackagePath)
	}
}
