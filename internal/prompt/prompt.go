// Package prompt asks the user how to date a photo that has no EXIF date.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aliskhannn/photo-watermark/internal/date"
)

var (
	_ date.Prompter = (*Terminal)(nil)
	_ date.Prompter = Fixed{}
)

// Terminal prompts on a text stream, usually stdin/stdout.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal reading answers from in and writing questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// ChooseFallback asks for a fallback. End of input means cancel.
func (t *Terminal) ChooseFallback(path string) (date.Choice, error) {
	fmt.Fprintf(t.out, "No EXIF capture date in %s.\n", filepath.Base(path))
	fmt.Fprintln(t.out, "  1) use file creation date")
	fmt.Fprintln(t.out, "  2) enter the date manually")
	fmt.Fprintln(t.out, "  other) cancel, no watermark")
	fmt.Fprint(t.out, "Choice: ")

	line, ok, err := t.readLine()
	if err != nil || !ok {
		return date.ChoiceCancel, err
	}

	switch line {
	case "1":
		return date.ChoiceFileDate, nil
	case "2":
		return date.ChoiceManual, nil
	default:
		return date.ChoiceCancel, nil
	}
}

// EnterDate asks for a date. An empty answer accepts the suggestion and end
// of input cancels the entry.
func (t *Terminal) EnterDate(_, suggested string) (string, bool, error) {
	fmt.Fprintf(t.out, "Capture date (YYYY-MM-DD) [%s]: ", suggested)

	line, ok, err := t.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	if line == "" {
		return suggested, true, nil
	}

	return line, true, nil
}

// readLine returns the next trimmed line. ok is false at end of input.
func (t *Terminal) readLine() (string, bool, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", false, nil
			}
			return strings.TrimSpace(line), true, nil
		}
		return "", false, fmt.Errorf("read answer: %w", err)
	}

	return strings.TrimSpace(line), true, nil
}

// Fixed answers every question with preconfigured values, for non-interactive runs.
type Fixed struct {
	Choice date.Choice
	Date   string // used for date.ChoiceManual; empty means the entry was cancelled
}

// ChooseFallback returns the configured choice.
func (f Fixed) ChooseFallback(string) (date.Choice, error) {
	return f.Choice, nil
}

// EnterDate returns the configured date.
func (f Fixed) EnterDate(string, string) (string, bool, error) {
	return f.Date, f.Date != "", nil
}
