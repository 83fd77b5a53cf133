package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Colors are disabled automatically when output is not a terminal
var (
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	blue   = color.New(color.FgBlue).SprintfFunc()
)

// success prints a confirmation line to stdout
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// warn prints a non-fatal problem to stderr
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}

// fail prints an error line to stderr; the caller exits
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", red("Error:"), fmt.Sprintf(format, args...))
}

// hint prints a follow-up suggestion to stderr
func hint(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
