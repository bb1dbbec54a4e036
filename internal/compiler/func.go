// Package compiler wraps the external FunC toolchain.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Source describes one compilation unit: a root contract file plus the
// shared include files it may depend on. Includes are passed to the compiler
// before the root, in the order given.
type Source struct {
	Path     string
	Includes []string
}

// Name returns the contract name, the stem of the root source file.
func (s Source) Name() string {
	base := filepath.Base(s.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Compiler turns a contract source into serialized code (a BOC).
type Compiler interface {
	Compile(ctx context.Context, src Source) ([]byte, error)
}

type compileOptions struct {
	funcBinary string
	fiftBinary string
	optLevel   int
}

type CompileOption func(*compileOptions)

// CompileOptionFuncBinary overrides the FunC compiler executable name.
func CompileOptionFuncBinary(name string) CompileOption {
	return func(o *compileOptions) {
		o.funcBinary = name
	}
}

// CompileOptionFiftBinary overrides the Fift interpreter executable name.
func CompileOptionFiftBinary(name string) CompileOption {
	return func(o *compileOptions) {
		o.fiftBinary = name
	}
}

// CompileOptionOptLevel sets the FunC optimization level (-O).
func CompileOptionOptLevel(level int) CompileOption {
	return func(o *compileOptions) {
		o.optLevel = level
	}
}

// FuncCompiler shells out to the func and fift binaries. func emits a Fift
// assembly script that serializes the code into a BOC file; running it under
// fift materializes that file.
type FuncCompiler struct {
	opts compileOptions
}

func NewFuncCompiler(options ...CompileOption) *FuncCompiler {
	c := &FuncCompiler{
		opts: compileOptions{
			funcBinary: "func",
			fiftBinary: "fift",
			optLevel:   2,
		},
	}
	for _, o := range options {
		o(&c.opts)
	}
	return c
}

var _ Compiler = (*FuncCompiler)(nil)

func (c *FuncCompiler) Compile(ctx context.Context, src Source) ([]byte, error) {
	funcBin, err := exec.LookPath(c.opts.funcBinary)
	if err != nil {
		return nil, fmt.Errorf("FunC compiler not found: %w", err)
	}
	fiftBin, err := exec.LookPath(c.opts.fiftBinary)
	if err != nil {
		return nil, fmt.Errorf("fift interpreter not found: %w", err)
	}

	workDir, err := os.MkdirTemp("", "funckit-compile-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	fifPath := filepath.Join(workDir, src.Name()+".fif")
	bocPath := filepath.Join(workDir, src.Name()+".boc")

	args := []string{
		"-o", fifPath,
		"-W", bocPath,
		"-O" + strconv.Itoa(c.opts.optLevel),
		"-SPA",
	}
	args = append(args, src.Includes...)
	args = append(args, src.Path)

	if err := runTool(ctx, funcBin, args...); err != nil {
		return nil, err
	}
	if err := runTool(ctx, fiftBin, fifPath); err != nil {
		return nil, err
	}

	code, err := os.ReadFile(bocPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("compiler produced no code for %q", src.Name())
		}
		return nil, fmt.Errorf("failed to read compiled code for %q: %w", src.Name(), err)
	}
	return code, nil
}

func runTool(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if _, err := cmd.Output(); err != nil {
		return fmt.Errorf("failed to execute `%s`: %w.\n%s", cmd, err, stderrBuf.String())
	}
	return nil
}
