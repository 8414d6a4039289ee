package values

import "strconv"

// Float is the type of floating point values.
type Float float32

var _ Value = Float(0)

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }
func (f Float) Type() string   { return "float" }

// Equal implements Float == Float using Go's own IEEE-754 semantics: NaN
// is unequal to everything, including itself.
func (f Float) Equal(o Float) bool { return float32(f) == float32(o) }
