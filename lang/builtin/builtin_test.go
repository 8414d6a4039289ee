package builtin_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epieffe/epilang/lang/builtin"
	"github.com/epieffe/epilang/lang/values"
)

func TestPrintNoNewlineNoQuotes(t *testing.T) {
	var out bytes.Buffer
	ptrs := builtin.Pointers(strings.NewReader(""), &out)
	printFn := ptrs[0].Get().(*values.BuiltInFunction)

	_, err := printFn.Call([]*values.Pointer{values.NewPointer(values.String("hi"))})
	require.NoError(t, err)
	assert.Equal(t, "hi", out.String())
}

func TestPrintlnAddsNewline(t *testing.T) {
	var out bytes.Buffer
	ptrs := builtin.Pointers(strings.NewReader(""), &out)
	printlnFn := ptrs[1].Get().(*values.BuiltInFunction)

	_, err := printlnFn.Call([]*values.Pointer{values.NewPointer(values.Int(7))})
	require.NoError(t, err)
	assert.Equal(t, "7\n", out.String())
}

func TestInputEchoesPromptAndStripsNewline(t *testing.T) {
	var out bytes.Buffer
	ptrs := builtin.Pointers(strings.NewReader("hello world\n"), &out)
	inputFn := ptrs[2].Get().(*values.BuiltInFunction)

	v, err := inputFn.Call([]*values.Pointer{values.NewPointer(values.String("> "))})
	require.NoError(t, err)
	assert.Equal(t, values.String("hello world"), v)
	assert.Equal(t, "> ", out.String())
}

func TestNamesAndPointersSameOrder(t *testing.T) {
	ptrs := builtin.Pointers(strings.NewReader(""), &bytes.Buffer{})
	require.Len(t, ptrs, len(builtin.Names))
	for i, p := range ptrs {
		fn := p.Get().(*values.BuiltInFunction)
		assert.Equal(t, builtin.Names[i], fn.Name)
	}
}
