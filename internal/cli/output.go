package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormatter writes human- and machine-readable CLI output.
type OutputFormatter struct {
	out    io.Writer
	errOut io.Writer
}

// NewOutputFormatter returns a formatter writing to stdout/stderr.
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{out: os.Stdout, errOut: os.Stderr}
}

// Success prints a success message.
func (o *OutputFormatter) Success(format string, args ...interface{}) {
	fmt.Fprintf(o.out, "[OK] %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational message.
func (o *OutputFormatter) Info(format string, args ...interface{}) {
	fmt.Fprintf(o.out, "%s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message to stderr.
func (o *OutputFormatter) Error(format string, args ...interface{}) {
	fmt.Fprintf(o.errOut, "[ERROR] %s\n", fmt.Sprintf(format, args...))
}

// JSON encodes data as indented JSON to stdout.
func (o *OutputFormatter) JSON(data interface{}) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// DefaultOutput is the package-level formatter used by subcommands.
var DefaultOutput = NewOutputFormatter()

// Success prints via DefaultOutput.
func Success(format string, args ...interface{}) { DefaultOutput.Success(format, args...) }

// Info prints via DefaultOutput.
func Info(format string, args ...interface{}) { DefaultOutput.Info(format, args...) }

// JSON encodes via DefaultOutput.
func JSON(data interface{}) error { return DefaultOutput.JSON(data) }
