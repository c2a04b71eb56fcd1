//go:build !desktop

package cli

import (
	"fmt"
	"os"
)

// RunDesktop reports that this binary has no native window support.
// Build with -tags desktop for the desktop shell; `mastermind send` and
// `mastermind doctor` work in every build.
func RunDesktop() {
	// Validate startup exactly as the desktop build does so a missing
	// credential is reported the same way.
	if _, err := prepare(baseConfig()); err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintln(os.Stderr, "Desktop mode not available in this build. Rebuild with -tags desktop, or use `mastermind send`.")
	os.Exit(1)
}
