package maincmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/interp"
	"github.com/mna/zero/lang/bytecode"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/machine"
)

// Run executes a .zero source file (compiling it through the full pipeline)
// or a previously compiled .zbc artifact. With --old, it runs the legacy
// tree-walking interpreter instead (internal/interp), covering only
// spec.md's S1-S3 subset.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		err := fmt.Errorf("run: exactly one file must be provided")
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	file := args[0]

	if c.Old {
		return c.runLegacy(stdio, file)
	}

	cfg, err := loadRuntimeConfig()
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}

	var chunk *compiler.Chunk
	if filepath.Ext(file) == ".zbc" {
		chunk, err = loadBytecodeFile(file)
	} else {
		chunk, err = compileFile(file, c.Roots, cfg)
	}
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}

	if cfg.Debug {
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(chunk))
	}

	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.MaxSteps = cfg.MaxSteps
	if err := vm.Run(chunk); err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	return nil
}

func (c *Cmd) runLegacy(stdio mainer.Stdio, file string) error {
	src, err := readSource(file)
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	ch, err := parseOnly(file, src)
	if err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	it := interp.New(stdio.Stdout)
	if err := it.Run(ch); err != nil {
		printError(stdio.Stderr, err, c.Detailed)
		return err
	}
	return nil
}

func loadBytecodeFile(file string) (*compiler.Chunk, error) {
	data, err := readSource(file)
	if err != nil {
		return nil, err
	}
	return bytecode.Decode(data)
}
