package main

import (
	"fmt"
	"os"

	godkit "github.com/bgrewell/god-kit"
	"github.com/bgrewell/god-kit/pkg/logging"
	"github.com/bgrewell/god-kit/pkg/option"
	"github.com/bgrewell/usage"
)

var (
	version = "dev"
)

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("godinfo"),
		usage.WithApplicationDescription("godinfo prints the title metadata of an Xbox disc image (title id, game name and content type) without converting it."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	debug := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "", nil)
	isoPath := u.AddArgument(1, "source-iso", "Path to the source disc image", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		fmt.Println("godinfo v" + version)
		u.PrintUsage()
		os.Exit(0)
	}

	if isoPath == nil || *isoPath == "" {
		u.PrintError(fmt.Errorf("location of the iso file <source-iso> must be provided"))
		os.Exit(1)
	}

	verbosity := logging.LEVEL_INFO
	if *debug {
		verbosity = logging.LEVEL_DEBUG
	}

	result, err := godkit.Inspect(*isoPath, option.WithLogger(godkit.DefaultLogger(verbosity)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to inspect image: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(result.Summary())
}
