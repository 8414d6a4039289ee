package values

import "strconv"

// Int is the type of integer values.
type Int int32

var _ Value = Int(0)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }
