package values

// String is the type of string values.
type String string

var _ Value = String("")

// String returns the raw string content, unquoted: print/println and `+`
// string concatenation both want the bare content, never a quoted Go
// representation.
func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
