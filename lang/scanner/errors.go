package scanner

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mna/zero/lang/token"
)

// Error describes a single lexical error at a source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// ErrorList collects scanner errors in the order they were reported. It
// implements error and Unwrap() []error so callers can range over the
// individual failures.
type ErrorList []*Error

// Add appends a new error to the list.
func (el *ErrorList) Add(pos token.Position, msg string) {
	*el = append(*el, &Error{Pos: pos, Msg: msg})
}

// Sort orders the errors by position, stabilizing on message for ties.
func (el ErrorList) Sort() {
	sort.Slice(el, func(i, j int) bool {
		a, b := el[i], el[j]
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Msg < b.Msg
	})
}

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (and %d more errors)", el[0], len(el)-1)
	return sb.String()
}

// Unwrap lets errors.Is/As and %w traverse the individual scanner errors.
func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// Err returns el as an error if it is non-empty, else nil.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// PrintError writes err to w, one error per line if err is an ErrorList.
func PrintError(w io.Writer, err error) {
	if el, ok := err.(ErrorList); ok {
		for _, e := range el {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
