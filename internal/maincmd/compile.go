package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/zero/lang/bytecode"
)

// Compile compiles a .zero file down to a .zbc bytecode artifact
// (spec.md §4.7 / §6), writing it alongside the source unless -o names an
// explicit output path.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		err := fmt.Errorf("compile: exactly one file must be provided")
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	file := args[0]

	cfg, err := loadRuntimeConfig()
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}

	chunk, err := compileFile(file, c.Roots, cfg)
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}

	data, err := bytecode.Encode(chunk)
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}

	out := c.Output
	if out == "" {
		out = strings.TrimSuffix(file, ".zero") + ".zbc"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	fmt.Fprintln(stdio.Stdout, out)
	return nil
}

// Check runs the frontend (lexer through type checker) without compiling or
// running, reporting the first error if any.
func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		err := fmt.Errorf("check: exactly one file must be provided")
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	if _, err := frontend(args[0], c.Roots); err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	fmt.Fprintln(stdio.Stdout, "ok")
	return nil
}
