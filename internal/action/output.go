package action

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Outputs writes step outputs to the GITHUB_OUTPUT file, or to a fallback
// writer as name=value lines when running outside a runner.
type Outputs struct {
	path     string
	fallback io.Writer
}

func NewOutputs(path string, fallback io.Writer) *Outputs {
	if fallback == nil {
		fallback = os.Stdout
	}
	return &Outputs{path: path, fallback: fallback}
}

func (o *Outputs) Set(name, value string) error {
	if o.path == "" {
		_, err := fmt.Fprintf(o.fallback, "%s=%s\n", name, value)
		return err
	}

	delimiter, err := newDelimiter()
	if err != nil {
		return err
	}
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s contains the delimiter", name)
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return fmt.Errorf("error writing output %s: %w", name, err)
	}
	return nil
}

func newDelimiter() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating output delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(b), nil
}

// Command writes a workflow command such as ::error:: or ::warning::.
func Command(w io.Writer, name, message string) {
	fmt.Fprintf(w, "::%s::%s\n", name, escapeData(message))
}

// Fail reports a failed step. The caller is responsible for the exit code.
func Fail(w io.Writer, message string) {
	Command(w, "error", message)
}

func Warning(w io.Writer, message string) {
	Command(w, "warning", message)
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
