package values

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Object is an instance of a user-defined class. Fields is a SwissTable map
// keyed by field name; field presence is fixed at construction time by
// ClassDef.Fields, so Fields never grows or shrinks after NewObject.
type Object struct {
	Class  *ClassDef
	Fields *swiss.Map[string, *Pointer]
}

var _ Value = (*Object)(nil)

// NewObject allocates an instance of def with every field initialized to
// the unit pointer, in declaration order.
func NewObject(def *ClassDef) *Object {
	fields := swiss.NewMap[string, *Pointer](uint32(len(def.Fields)))
	for _, name := range def.Fields {
		fields.Put(name, UnitPointer)
	}
	return &Object{Class: def, Fields: fields}
}

func (o *Object) String() string { return fmt.Sprintf("%s instance", o.Class.Name) }
func (o *Object) Type() string   { return o.Class.Name }

// Field returns the pointer held by the named field, if any.
func (o *Object) Field(name string) (*Pointer, bool) {
	return o.Fields.Get(name)
}

// SetField overwrites the pointer held by the named field, if it exists.
// Reports false (and does nothing) if the field is unknown, letting the
// caller raise NoSuchField.
func (o *Object) SetField(name string, p *Pointer) bool {
	if _, ok := o.Fields.Get(name); !ok {
		return false
	}
	o.Fields.Put(name, p)
	return true
}

// Method binds a method of o's class to o as self, returning the Method
// value constructed fresh on each property access.
func (o *Object) Method(name string) (*Method, bool) {
	fn, ok := o.Class.Methods[name]
	if !ok {
		return nil, false
	}
	return &Method{Self: NewPointer(o), Function: fn}, true
}
