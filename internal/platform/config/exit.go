package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted fatal message to stderr and exits with code 1.
// CLI entry points use it so every tool fails the same way.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
