package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/epieffe/epilang/lang/builtin"
	"github.com/epieffe/epilang/lang/compiler"
	"github.com/epieffe/epilang/lang/machine"
	"github.com/epieffe/epilang/lang/parser"
	"github.com/epieffe/epilang/lang/values"
)

// RunFile implements the one-argument driver surface: read the file, compile
// and evaluate it once against a fresh Module, and print the final result.
// Any failure is printed to stderr and returned as a non-nil error so Main
// exits nonzero.
func RunFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	names := builtin.Names
	pointers := builtin.Pointers(stdio.Stdin, stdio.Stdout)

	cctx := compiler.NewContext(names)
	exp, err := compiler.CompileProgram(prog, cctx)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	mod := machine.NewModule(pointers)
	result, err := machine.Evaluate(exp, mod, 0)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if v := result.Value(); v != values.Unit {
		fmt.Fprintln(stdio.Stdout, v)
	}
	return nil
}
