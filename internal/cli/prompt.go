package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/errors"
)

// ParseCount interprets an answer to the card count prompt. A blank answer
// selects def silently. Anything that is not an integer in
// [1, errors.MaxCardCount] also selects def, and ok is false so the caller
// can warn.
func ParseCount(input string, def int) (n int, ok bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return def, true
	}
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 || n > errors.MaxCardCount {
		return def, false
	}
	return n, true
}

// menuChoice is one entry of the PDF mode menu.
type menuChoice struct {
	key   string
	label string
	mode  assemble.Mode // empty for exit
}

var menuChoices = []menuChoice{
	{"1", "Full size (one card per page)", assemble.ModeFull},
	{"2", "Compact (four cards per page)", assemble.ModeCompact},
	{"3", "Both", assemble.ModeBoth},
	{"4", "Exit", ""},
}

// ParseMode interprets an answer to the PDF menu. Digits 1-4 and the mode
// names are accepted. exit is true for the exit choice; ok is false for
// anything unrecognised.
func ParseMode(input string) (mode assemble.Mode, exit, ok bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, c := range menuChoices {
		if input == c.key || (c.mode != "" && input == string(c.mode)) || (c.mode == "" && input == "exit") {
			return c.mode, c.mode == "", true
		}
	}
	return "", false, false
}

// promptCount asks for the number of cards on w and reads one line from r.
func promptCount(r *bufio.Reader, w io.Writer, def int) (int, error) {
	fmt.Fprintf(w, "How many bingo cards would you like to generate? (default: %d): ", def)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			fmt.Fprintln(w)
			return def, nil
		}
		return 0, err
	}
	n, ok := ParseCount(line, def)
	if !ok {
		printWarning(w, "Invalid input, using default of %d cards", def)
	}
	return n, nil
}

// promptMode shows the numbered menu on w and reads answers from r until
// one is valid. End of input counts as exit.
func promptMode(r *bufio.Reader, w io.Writer) (mode assemble.Mode, exit bool, err error) {
	fmt.Fprintln(w, StyleTitle.Render("Bingo Card PDF Creator"))
	for _, c := range menuChoices {
		fmt.Fprintf(w, "  %s. %s\n", c.key, c.label)
	}
	for {
		fmt.Fprint(w, "Enter your choice (1-4): ")
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(w)
				return "", true, nil
			}
			return "", false, err
		}
		if mode, exit, ok := ParseMode(line); ok {
			return mode, exit, nil
		}
		printWarning(w, "Invalid choice, please enter 1, 2, 3 or 4")
	}
}
