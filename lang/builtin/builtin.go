// Package builtin provides epilang's minimum built-in function set: print,
// println and input, installed as values.BuiltInFunction values in the top
// frame before any user code compiles or runs. The predeclared name -> Value
// table is an ordered name/pointer pair so the same ordering drives both
// compiler.NewContext's predeclared slots and machine.NewModule's initial
// variable stack.
package builtin

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/epieffe/epilang/lang/values"
)

// Names is the fixed, ordered list of built-in names. Compile-time slot
// numbers (assigned by compiler.NewContext(Names)) and runtime stack
// positions (assigned by machine.NewModule(Pointers(...))) must use the
// same order, or Variable{scope} references to a built-in will read the
// wrong pointer.
var Names = []string{"print", "println", "input"}

// Pointers returns the built-in function values, in the same order as
// Names, wired to stdin/stdout.
func Pointers(stdin io.Reader, stdout io.Writer) []*values.Pointer {
	reader := bufio.NewReader(stdin)
	return []*values.Pointer{
		values.NewPointer(printFn(stdout)),
		values.NewPointer(printlnFn(stdout)),
		values.NewPointer(inputFn(stdout, reader)),
	}
}

func printFn(w io.Writer) *values.BuiltInFunction {
	return &values.BuiltInFunction{
		Name:    "print",
		NumArgs: 1,
		Call: func(args []*values.Pointer) (values.Value, error) {
			fmt.Fprint(w, args[0].Get().String())
			return values.Unit, nil
		},
	}
}

func printlnFn(w io.Writer) *values.BuiltInFunction {
	return &values.BuiltInFunction{
		Name:    "println",
		NumArgs: 1,
		Call: func(args []*values.Pointer) (values.Value, error) {
			fmt.Fprintln(w, args[0].Get().String())
			return values.Unit, nil
		},
	}
}

func inputFn(w io.Writer, r *bufio.Reader) *values.BuiltInFunction {
	return &values.BuiltInFunction{
		Name:    "input",
		NumArgs: 1,
		Call: func(args []*values.Pointer) (values.Value, error) {
			fmt.Fprint(w, args[0].Get().String())
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return nil, fmt.Errorf("input: %w", err)
			}
			return values.String(strings.TrimRight(line, "\r\n")), nil
		},
	}
}
