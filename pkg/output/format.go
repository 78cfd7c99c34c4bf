package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is the value of the --format flag
type Format string

const (
	FormatAuto     Format = "auto"
	FormatTerminal Format = "term"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

var formatNames = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

// ParseFormat parses a --format flag value
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(s)]
	if !ok {
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
	return f, nil
}

// fdWriter is a writer backed by a file descriptor, e.g. *os.File
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// resolveFormat turns FormatAuto into term or text for w. Only a colour
// capable terminal gets term; buffers, pipes and NO_COLOR get text.
func resolveFormat(w io.Writer, f Format) Format {
	if f != FormatAuto {
		return f
	}
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	out, ok := w.(fdWriter)
	if !ok {
		return FormatText
	}
	if fd := out.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(out).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
