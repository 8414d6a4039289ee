package values

import "fmt"

// ClassDef holds everything the evaluator needs to construct instances of a
// user-defined class: its name, the ordered field names inferred by the
// compiler from constructor assignments, the constructor function (possibly
// a synthesized no-op default), and its methods. ClassDef is not itself a
// Value; Class is the first-class handle that wraps a *ClassDef so it can
// flow through the value model.
type ClassDef struct {
	ID      int
	Name    string
	Fields  []string
	Ctor    *Function
	Methods map[string]*Pointer
}

// Class is a first-class reference to a class definition, e.g. the value of
// a bare class-name expression.
type Class struct {
	Def *ClassDef
}

var _ Value = (*Class)(nil)

func (c *Class) String() string { return fmt.Sprintf("class %s", c.Def.Name) }
func (c *Class) Type() string   { return "class" }
