package convert

import "fmt"

// LayoutError reports a failure preparing the destination directory layout.
// It is always fatal to the conversion.
type LayoutError struct {
	Path string
	Err  error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("failed to prepare destination %s: %v", e.Path, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}
