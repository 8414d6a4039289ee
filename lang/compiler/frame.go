package compiler

// frame is a compiler-time record of name bindings at one lexical nesting
// level. The evaluator has no corresponding runtime record: only a flat
// variable stack (lang/machine.Module.Variables) indexed by the scope
// numbers this package assigns.
type frame struct {
	varCounter   int
	variables    map[string]int
	classes      map[string]int
	isolated     bool
	externalVars []int

	// varEdits/classEdits record, in order, every DefineVariable/DefineClass
	// call against this frame together with what it overwrote, so Context's
	// RestoreTo can undo a partially-compiled REPL submission without
	// disturbing earlier, successfully-compiled definitions that happen to
	// share a name.
	varEdits   []varEdit
	classEdits []classEdit
}

type varEdit struct {
	name      string
	hadPrev   bool
	prevScope int
}

type classEdit struct {
	name    string
	hadPrev bool
	prevID  int
}

func newFrame(isolated bool, startCounter int) *frame {
	return &frame{
		varCounter: startCounter,
		variables:  make(map[string]int),
		classes:    make(map[string]int),
		isolated:   isolated,
	}
}

// Context is the compiler's frame stack plus the module-wide monotonic
// class id counter.
type Context struct {
	frames     []*frame
	classCount int
}

// NewContext returns a compiler context with a single non-isolated root
// frame. predeclared is the ordered list of names (the built-in functions)
// that are already bound in the enclosing Module's variable stack before any
// user code compiles; each is registered as a variable in the root frame at
// its stack position so references to them resolve like any other variable.
func NewContext(predeclared []string) *Context {
	c := &Context{frames: []*frame{newFrame(false, 0)}}
	for _, name := range predeclared {
		c.DefineVariable(name)
	}
	return c
}

// PushFrame starts a new nested frame. isolated marks a function-body
// boundary: a lookup from an inner frame that has to cross it turns the
// found variable into a capture of that frame (see Resolve).
func (c *Context) PushFrame(isolated bool) {
	last := c.frames[len(c.frames)-1]
	start := last.varCounter
	if isolated {
		start = 0
	}
	c.frames = append(c.frames, newFrame(isolated, start))
}

// PopFrame discards the top frame.
func (c *Context) PopFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// DefineVariable allocates a fresh slot for name in the current (top) frame.
// A redefinition in the same frame shadows the prior slot (a fresh slot is
// still allocated; the map simply now points at the new one).
func (c *Context) DefineVariable(name string) int {
	f := c.frames[len(c.frames)-1]
	scope := f.varCounter
	prev, hadPrev := f.variables[name]
	f.varEdits = append(f.varEdits, varEdit{name: name, hadPrev: hadPrev, prevScope: prev})
	f.variables[name] = scope
	f.varCounter++
	return scope
}

// ClassID ascends every frame (ignoring isolation, unlike variable lookup:
// classes are ordinary lexically-scoped declarations, not subject to the
// closure-capture boundary) looking for a class named name.
func (c *Context) ClassID(name string) (int, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if id, ok := c.frames[i].classes[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// DefineClass registers name in the current frame's class map and returns
// its freshly allocated, module-unique id. Returns an error if name already
// has a class id in the current frame (not in enclosing ones: shadowing a
// class from an outer frame is allowed, matching the equivalent variable
// shadowing rule).
func (c *Context) DefineClass(name string) (int, error) {
	f := c.frames[len(c.frames)-1]
	if _, ok := f.classes[name]; ok {
		return 0, &ClassNameAlreadyDeclaredError{Name: name}
	}
	id := c.classCount
	f.classEdits = append(f.classEdits, classEdit{name: name, hadPrev: false})
	f.classes[name] = id
	c.classCount++
	return id, nil
}

// topFrameIndex returns the index of the current (top) frame in the frame
// stack.
func (c *Context) topFrameIndex() int { return len(c.frames) - 1 }

// Resolve looks up name across the whole frame stack, threading closure
// capture through every isolated (function) boundary crossed along the way.
//
// A name found without crossing any isolated frame is an ordinary local
// reference. A name found in an enclosing frame, beyond one or more
// isolated boundaries, is threaded: each isolated frame between the
// definition site and the reference site gets its own freshly allocated
// local slot for name (reusing one already allocated by an earlier
// reference to the same name in that frame) and records, in that frame's
// externalVars, the scope index at which to fetch the captured pointer from
// its own enclosing frame at the moment its Function/Closure node is
// evaluated. The chain is built outer-to-inner so each frame's external_vars
// entry addresses its immediate parent's frame, exactly matching the
// evaluator's `variables[stack_start + ext]` read (lang/machine).
func (c *Context) Resolve(name string) (int, bool) {
	var crossed []int // isolated frame indices passed without finding name, innermost first
	i := len(c.frames) - 1
	for i >= 0 {
		if s, found := c.frames[i].variables[name]; found {
			for l, r := 0, len(crossed)-1; l < r; l, r = l+1, r-1 {
				crossed[l], crossed[r] = crossed[r], crossed[l]
			}
			scope := s
			for _, fi := range crossed {
				scope = c.captureInto(fi, name, scope)
			}
			return scope, true
		}
		if c.frames[i].isolated {
			crossed = append(crossed, i)
		}
		i--
	}
	return 0, false
}

// captureInto records, in frame fi, a capture of name whose pointer is
// available at outerScope in fi's immediately enclosing frame. Reuses the
// slot already allocated if a previous reference in this compilation
// already captured the same name into this frame.
func (c *Context) captureInto(fi int, name string, outerScope int) int {
	f := c.frames[fi]
	if local, ok := f.variables[name]; ok {
		return local
	}
	local := f.varCounter
	f.varCounter++
	f.variables[name] = local
	f.externalVars = append(f.externalVars, outerScope)
	return local
}

// ExternalVars returns the capture list accumulated for the current (top)
// frame so far; read when popping a function frame to build its
// ir.FunctionExp.ExternalVars.
func (c *Context) ExternalVars() []int {
	return c.frames[len(c.frames)-1].externalVars
}

// Mark is a point-in-time snapshot of a Context's root frame, taken by
// Snapshot and undone by RestoreTo. It exists for the REPL, which must be
// able to undo a submission that compiled some top-level `let`/`class`
// declarations before failing partway through — ordinary file/one-shot
// compilation never needs it.
type Mark struct {
	varEdits   int
	classEdits int
	varCounter int
	classCount int
}

// Snapshot captures the current state of the root frame. Valid to call only
// between top-level compiles, i.e. whenever the frame stack holds just the
// root frame (true both before any Compile/CompileProgram call and after one
// returns, success or error, since every PushFrame the compiler performs is
// unwound by a matching PopFrame before the call returns).
func (c *Context) Snapshot() Mark {
	f := c.frames[0]
	return Mark{
		varEdits:   len(f.varEdits),
		classEdits: len(f.classEdits),
		varCounter: f.varCounter,
		classCount: c.classCount,
	}
}

// RestoreTo undoes every DefineVariable/DefineClass call made against the
// root frame since m was taken, restoring whatever each one overwrote.
func (c *Context) RestoreTo(m Mark) {
	f := c.frames[0]
	for i := len(f.varEdits) - 1; i >= m.varEdits; i-- {
		e := f.varEdits[i]
		if e.hadPrev {
			f.variables[e.name] = e.prevScope
		} else {
			delete(f.variables, e.name)
		}
	}
	f.varEdits = f.varEdits[:m.varEdits]
	for i := len(f.classEdits) - 1; i >= m.classEdits; i-- {
		e := f.classEdits[i]
		if e.hadPrev {
			f.classes[e.name] = e.prevID
		} else {
			delete(f.classes, e.name)
		}
	}
	f.classEdits = f.classEdits[:m.classEdits]
	f.varCounter = m.varCounter
	c.classCount = m.classCount
}
