package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/core/value"
	"github.com/agenthands/bitlogic/pkg/interp"
)

func TestEnv(t *testing.T) {
	var empty *interp.Env
	_, ok := empty.Lookup("0x1")
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())

	env := interp.NewEnv()
	env.Set("0x2", value.One)
	env.Set("0x1", value.Zero)
	env.Set("0x2", value.Zero)

	v, ok := env.Lookup("0x2")
	assert.True(t, ok)
	assert.Equal(t, value.Zero, v)
	assert.Equal(t, []string{"0x1", "0x2"}, env.Names())
}

func TestFunctionTable(t *testing.T) {
	assert.Equal(t, "1x1F", interp.CallName("fx1F"))
	assert.Equal(t, "1x1F", interp.CallName("1x1F"))

	table := interp.NewFunctionTable()
	first := table.Register(&ast.FunctionDefinition{Name: "fx1", Params: []string{"0x1"}})
	assert.Equal(t, "1x1", first.Name)

	byDef, ok := table.Lookup("fx1")
	assert.True(t, ok)
	byCall, ok := table.Lookup("1x1")
	assert.True(t, ok)
	assert.Same(t, byDef, byCall)

	second := table.Register(&ast.FunctionDefinition{Name: "fx1"})
	got, _ := table.Lookup("1x1")
	assert.Same(t, second, got)
	assert.Equal(t, []string{"1x1"}, table.Names())

	_, ok = table.Lookup("1x2")
	assert.False(t, ok)
}
