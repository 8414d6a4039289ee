package maincmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mna/mainer"
	"github.com/peterh/liner"

	"github.com/epieffe/epilang/lang/builtin"
	"github.com/epieffe/epilang/lang/compiler"
	"github.com/epieffe/epilang/lang/machine"
	"github.com/epieffe/epilang/lang/parser"
	"github.com/epieffe/epilang/lang/values"
)

const (
	prompt     = "epilang> "
	contPrompt = "... "
)

// RunREPL implements the zero-argument driver surface: a persistent Module
// and compiler.Context shared across submissions, so a top-level `let` in
// one submission stays resolvable in the next (lang/ast.Program's doc
// comment explains why compiling through Program rather than Block is what
// makes this possible).
//
// Line editing is github.com/peterh/liner, the same line-editing library
// other interpreter REPLs in the ecosystem reach for.
func RunREPL(ctx context.Context, stdio mainer.Stdio) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	cctx := compiler.NewContext(builtin.Names)
	mod := machine.NewModule(builtin.Pointers(stdio.Stdin, stdio.Stdout))

	for {
		src, ok := readSubmission(line)
		if !ok {
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(src)

		if err := evalSubmission(src, cctx, mod, stdio.Stdout); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}

// readSubmission reads one REPL submission: an initial line at prompt,
// followed by as many continuation lines (at contPrompt) as needed while
// brackets are unmatched or the trimmed input ends in `.`. ok is false on
// EOF/interrupt with no partial input.
func readSubmission(line *liner.State) (string, bool) {
	first, err := line.Prompt(prompt)
	if err != nil {
		return "", false
	}
	src := first
	for needsContinuation(src) {
		more, err := line.Prompt(contPrompt)
		if err != nil {
			break
		}
		src += "\n" + more
	}
	return src, true
}

func needsContinuation(src string) bool {
	trimmed := strings.TrimSpace(src)
	if strings.HasSuffix(trimmed, ".") {
		return true
	}
	depth := 0
	for _, r := range src {
		switch r {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}
	return depth > 0
}

// evalSubmission compiles and evaluates one REPL submission, snapshotting
// and rolling back both the compiler context's top-level bindings and the
// module's variable stack on error so a failed submission never leaves
// partial `let`/`class` declarations for later submissions to stumble over.
func evalSubmission(src string, cctx *compiler.Context, mod *machine.Module, out io.Writer) error {
	mark := cctx.Snapshot()
	base := mod.Len()

	prog, err := parser.Parse([]byte(src))
	if err != nil {
		return err
	}

	exp, err := compiler.CompileProgram(prog, cctx)
	if err != nil {
		cctx.RestoreTo(mark)
		return err
	}

	result, err := machine.Evaluate(exp, mod, 0)
	if err != nil {
		// The compile above already succeeded and allocated this submission's
		// slots in cctx's root frame; since evaluation only got partway through
		// pushing them onto mod, both must be rolled back together or a later
		// submission's compiler-assigned scopes would outrun the actual stack.
		cctx.RestoreTo(mark)
		mod.Truncate(base)
		return err
	}

	if v := result.Value(); v != values.Unit {
		fmt.Fprintln(out, v)
	}
	return nil
}
