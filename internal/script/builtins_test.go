package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hooks/internal/hooks"
)

func noBind(BindingSpec) error { return nil }

func mustBuiltin(t *testing.T, b BindingSpec) hooks.Callback {
	t.Helper()
	cb, err := builtin(b, noBind)
	require.NoError(t, err)
	return cb
}

func TestBuiltin_Identity(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinIdentity})

	got, err := cb([]hooks.Value{"v", "p"})
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = cb(nil)
	assert.True(t, hooks.IsArity(err))
}

func TestBuiltin_Record(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinRecord})

	got, err := cb([]hooks.Value{1, 2})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBuiltin_Arithmetic(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		operand any
		value   any
		want    any
	}{
		{"int add", BuiltinAdd, 2, 40, 42},
		{"int mul", BuiltinMul, 11, 10, 110},
		{"float operand", BuiltinAdd, 0.5, 1, 1.5},
		{"float value", BuiltinMul, 2, 1.25, 2.5},
		{"negative", BuiltinAdd, -5, 3, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := mustBuiltin(t, BindingSpec{Callback: tt.op, Args: []any{tt.operand}})
			got, err := cb([]hooks.Value{tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltin_ArithmeticRejectsNonNumbers(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinAdd, Args: []any{1}})

	_, err := cb([]hooks.Value{"one"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be a number")
}

func TestBuiltin_Concat(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinConcat, Args: []any{"!"}})

	got, err := cb([]hooks.Value{"hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", got)

	got, err = cb([]hooks.Value{7})
	require.NoError(t, err)
	assert.Equal(t, "7!", got)
}

func TestBuiltin_Upper(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinUpper})

	got, err := cb([]hooks.Value{"hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)

	_, err = cb([]hooks.Value{3})
	assert.Error(t, err)
}

func TestBuiltin_Fail(t *testing.T) {
	cb := mustBuiltin(t, BindingSpec{Callback: BuiltinFail, Args: []any{"boom"}})

	got, err := cb([]hooks.Value{"v"})
	assert.Nil(t, got)
	assert.EqualError(t, err, "boom")
}

func TestBuiltin_Bind(t *testing.T) {
	var bound []BindingSpec
	cb, err := builtin(BindingSpec{
		Callback: BuiltinBind,
		Args:     []any{"later", BuiltinAdd, -1, "plus", 3},
	}, func(b BindingSpec) error {
		bound = append(bound, b)
		return nil
	})
	require.NoError(t, err)

	got, err := cb([]hooks.Value{"pass-through", "param"})
	require.NoError(t, err)
	assert.Equal(t, "pass-through", got)

	require.Len(t, bound, 1)
	assert.Equal(t, "later", bound[0].Hook)
	assert.Equal(t, BuiltinAdd, bound[0].Callback)
	assert.Equal(t, -1, bound[0].PriorityOrDefault())
	assert.Equal(t, "plus", bound[0].DisplayLabel())
	assert.Equal(t, []any{3}, bound[0].Args)

	got, err = cb(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, bound, 2)
}

func TestBindTarget_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		wantErr string
	}{
		{"too few", []any{"h"}, "at least [hook, callback]"},
		{"empty hook", []any{"", "record"}, "non-empty string"},
		{"callback not string", []any{"h", 1}, "callback must be a string"},
		{"priority not int", []any{"h", "record", "high"}, "priority must be an integer"},
		{"label not string", []any{"h", "record", 1, 2}, "label must be a string"},
		{"bad target args", []any{"h", "add", 1, "l"}, "bind target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bindTarget(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckBuiltin_AllBuiltinsKnown(t *testing.T) {
	for _, name := range Builtins {
		err := checkBuiltin(BindingSpec{Callback: name})
		if err != nil {
			assert.NotContains(t, err.Error(), "unknown callback", name)
		}
	}
	assert.Error(t, checkBuiltin(BindingSpec{Callback: "nope"}))
}
