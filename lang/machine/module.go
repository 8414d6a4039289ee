// Package machine implements the tree-walking evaluator and the persistent
// Module it evaluates against. The evaluator walks ir.Exp directly —
// recursive per-variant evaluation, not a bytecode interpreter — returning
// plain errors rather than panicking on user-triggerable conditions, except
// Int division by zero, which keeps Go's own runtime panic.
package machine

import (
	"github.com/dolthub/swiss"

	"github.com/epieffe/epilang/lang/values"
)

// Module is the persistent evaluation state shared by every expression
// evaluated in one process, and across REPL submissions in that process.
// Variables is the flat pointer stack that every Exp.Variable{scope} indexes
// into, relative to whatever stackStart the caller is evaluating under;
// Classes maps a compile-time class id to its materialized definition.
type Module struct {
	Variables []*values.Pointer
	Classes   *swiss.Map[int, *values.ClassDef]
}

// NewModule returns an empty module with predeclared already pushed onto
// the variable stack, in order, so their compile-time slot numbers (assigned
// by compiler.NewContext with the same ordered name list) line up with their
// runtime positions.
func NewModule(predeclared []*values.Pointer) *Module {
	m := &Module{
		Variables: make([]*values.Pointer, 0, len(predeclared)+16),
		Classes:   swiss.NewMap[int, *values.ClassDef](8),
	}
	m.Variables = append(m.Variables, predeclared...)
	return m
}

// Push appends p to the variable stack and returns its new length.
func (m *Module) Push(p *values.Pointer) int {
	m.Variables = append(m.Variables, p)
	return len(m.Variables)
}

// Pop removes and returns the top of the variable stack.
func (m *Module) Pop() *values.Pointer {
	n := len(m.Variables) - 1
	p := m.Variables[n]
	m.Variables = m.Variables[:n]
	return p
}

// Truncate shrinks the variable stack back to length n, discarding
// everything above it. This is the mechanism behind a block's scope-exit
// discipline and behind REPL rollback-on-error: it never shrinks storage
// capacity, so growing back past n on a later submission is cheap.
func (m *Module) Truncate(n int) {
	for i := n; i < len(m.Variables); i++ {
		m.Variables[i] = nil // let the GC reclaim anything only the stack slot held
	}
	m.Variables = m.Variables[:n]
}

// Len returns the current variable stack length, used as the base for a
// call frame or as the snapshot point for Block/REPL truncation.
func (m *Module) Len() int { return len(m.Variables) }

// InstallClass records def under id, per ClassDefExp evaluation.
func (m *Module) InstallClass(id int, def *values.ClassDef) {
	m.Classes.Put(id, def)
}

// LookupClass returns the class installed under id, if any.
func (m *Module) LookupClass(id int) (*values.ClassDef, bool) {
	return m.Classes.Get(id)
}
