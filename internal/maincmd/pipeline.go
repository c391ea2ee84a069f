package maincmd

import (
	"os"
	"path/filepath"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/module"
	"github.com/mna/zero/lang/parser"
)

const moduleExt = "zero"

// searchRoots builds the module loader's search path: the current working
// directory and the entry file's own directory are always implicit roots
// (matching module_loader.rs's resolution order), followed by any roots
// configured with --root, in the order given.
func searchRoots(entryFile string, extraRoots []string) []string {
	roots := make([]string, 0, len(extraRoots)+2)
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	if dir := filepath.Dir(entryFile); dir != "." {
		roots = append(roots, dir)
	}
	roots = append(roots, extraRoots...)
	return roots
}

// frontend runs the lexer, parser, module loader and type checker over
// entryFile, returning the fully resolved *ast.Chunk ready for
// lang/compiler. This is shared by the run, compile and check commands.
func frontend(entryFile string, extraRoots []string) (*ast.Chunk, error) {
	src, err := os.ReadFile(entryFile)
	if err != nil {
		return nil, err
	}

	ch, err := parser.ParseFile(entryFile, src)
	if err != nil {
		return nil, err
	}

	loader := module.NewLoader(moduleExt, searchRoots(entryFile, extraRoots)...)
	if err := module.ResolveReferences(loader, ch); err != nil {
		return nil, err
	}

	if err := checker.New().Check(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// compileFile runs the full frontend plus lang/compiler, applying cfg's
// MaxLocals override first.
func compileFile(entryFile string, extraRoots []string, cfg runtimeConfig) (*compiler.Chunk, error) {
	if cfg.MaxLocals > 0 {
		compiler.MaxLocals = cfg.MaxLocals
	}
	ch, err := frontend(entryFile, extraRoots)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(ch)
}

func readSource(file string) ([]byte, error) {
	return os.ReadFile(file)
}

// parseOnly runs just the lexer and parser, used by the legacy interpreter
// (internal/interp) and the parse debug command, which never touch the
// module loader, checker or compiler.
func parseOnly(file string, src []byte) (*ast.Chunk, error) {
	return parser.ParseFile(file, src)
}
