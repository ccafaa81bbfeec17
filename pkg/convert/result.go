package convert

import (
	"fmt"
	"strings"

	"github.com/bgrewell/god-kit/pkg/executable"
)

// Result describes a finished (or dry-run) conversion.
type Result struct {
	// TitleID is the 32-bit title identifier extracted from the executable.
	TitleID uint32
	// TitleName is the resolved display name; empty when neither the caller
	// nor the catalog knows one.
	TitleName string
	// ContentType is the disc layout classification.
	ContentType executable.ContentType
	// BlockCount and PartCount describe the package geometry. Zero on dry
	// runs, which never compute geometry.
	BlockCount uint64
	PartCount  uint64
	// PackagePath is the finished package directory (the title-identifier
	// directory). Empty on dry runs.
	PackagePath string
	// DryRun reports whether the conversion only inspected metadata.
	DryRun bool
}

// Summary renders the human-readable conversion summary.
func (r *Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title ID: %08X\n", r.TitleID)
	name := r.TitleName
	if name == "" {
		name = "(unknown)"
	}
	fmt.Fprintf(&sb, "    Name: %s\n", name)
	fmt.Fprintf(&sb, "    Type: %s\n", r.ContentType)
	return sb.String()
}
