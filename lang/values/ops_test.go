package values

import (
	"testing"

	"github.com/epieffe/epilang/lang/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryArith(t *testing.T) {
	cases := []struct {
		name    string
		op      ir.BinaryOp
		a, b    Value
		want    Value
	}{
		{"int+int", ir.Add, Int(1), Int(2), Int(3)},
		{"int*float", ir.Mul, Int(2), Float(1.5), Float(3)},
		{"int/int truncates", ir.Div, Int(7), Int(2), Int(3)},
		{"string+int concat", ir.Add, String("n="), Int(5), String("n=5")},
		{"int+string concat", ir.Add, Int(5), String("!"), String("5!")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Binary(c.op, c.a, c.b)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestBinaryArithErrors(t *testing.T) {
	_, err := Binary(ir.Sub, String("a"), Int(1))
	require.Error(t, err)
	var typeErr *IncompatibleTypesError
	assert.ErrorAs(t, err, &typeErr)
}

func TestListConcat(t *testing.T) {
	a := NewList([]*Pointer{NewPointer(Int(1))})
	b := NewList([]*Pointer{NewPointer(Int(2))})
	got, err := Binary(ir.Add, a, b)
	require.NoError(t, err)
	l, ok := got.(*List)
	require.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestEqualityAcrossTypes(t *testing.T) {
	got, err := Binary(ir.Eq, Int(1), String("1"))
	require.NoError(t, err)
	assert.Equal(t, Bool(false), got)
}

func TestFloatNaNNeverEqual(t *testing.T) {
	nan := Float(float32NaN())
	got, err := Binary(ir.Eq, nan, nan)
	require.NoError(t, err)
	assert.Equal(t, Bool(false), got)
}

func float32NaN() float32 {
	var zero float32
	return zero / zero
}

func TestAsBool(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Unit, false},
		{Int(0), false},
		{Int(1), true},
		{String(""), false},
		{String("x"), true},
		{NewList(nil), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AsBool(c.v))
	}
}

func TestSubscript(t *testing.T) {
	l := NewList([]*Pointer{NewPointer(Int(10)), NewPointer(Int(20))})

	list, idx, err := Subscript(l, Int(1))
	require.NoError(t, err)
	assert.Equal(t, Int(20), list.Elements[idx].Get())

	_, _, err = Subscript(l, Int(5))
	var rangeErr *ListIndexOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)

	_, _, err = Subscript(Int(1), Int(0))
	var subErr *NotSubscriptableError
	require.ErrorAs(t, err, &subErr)
}
