package checker

import (
	"fmt"

	"github.com/mna/zero/lang/token"
)

// Error describes a single type-checking failure at a source position. Per
// the pipeline's no-local-recovery policy, Check returns the first Error it
// encounters rather than collecting a list.
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

func (c *Checker) errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
