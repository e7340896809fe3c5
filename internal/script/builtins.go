package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/hooks/internal/hooks"
)

// Builtin callback names.
const (
	BuiltinIdentity = "identity"
	BuiltinRecord   = "record"
	BuiltinAdd      = "add"
	BuiltinMul      = "mul"
	BuiltinConcat   = "concat"
	BuiltinUpper    = "upper"
	BuiltinFail     = "fail"
	BuiltinBind     = "bind"
)

// Builtins lists every builtin callback name.
var Builtins = []string{
	BuiltinIdentity, BuiltinRecord, BuiltinAdd, BuiltinMul,
	BuiltinConcat, BuiltinUpper, BuiltinFail, BuiltinBind,
}

// checkBuiltin validates the callback name and the shape of its args.
func checkBuiltin(b BindingSpec) error {
	switch b.Callback {
	case BuiltinIdentity, BuiltinRecord, BuiltinUpper:
		if len(b.Args) != 0 {
			return fmt.Errorf("%s takes no args", b.Callback)
		}
	case BuiltinAdd, BuiltinMul:
		if len(b.Args) != 1 {
			return fmt.Errorf("%s takes exactly one numeric arg", b.Callback)
		}
		if _, ok := toFloat(b.Args[0]); !ok {
			return fmt.Errorf("%s arg must be a number, got %T", b.Callback, b.Args[0])
		}
	case BuiltinConcat:
		if len(b.Args) != 1 {
			return fmt.Errorf("concat takes exactly one arg")
		}
	case BuiltinFail:
		if len(b.Args) != 1 {
			return fmt.Errorf("fail takes exactly one message arg")
		}
		if _, ok := b.Args[0].(string); !ok {
			return fmt.Errorf("fail message must be a string, got %T", b.Args[0])
		}
	case BuiltinBind:
		if _, err := bindTarget(b.Args); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown callback %q", b.Callback)
	}
	return nil
}

// bindTarget decodes the args of the bind builtin:
// [hook, callback, priority?, label?, callback args...].
func bindTarget(args []any) (BindingSpec, error) {
	if len(args) < 2 {
		return BindingSpec{}, fmt.Errorf("bind needs at least [hook, callback]")
	}
	hook, ok := args[0].(string)
	if !ok || hook == "" {
		return BindingSpec{}, fmt.Errorf("bind hook must be a non-empty string")
	}
	cb, ok := args[1].(string)
	if !ok {
		return BindingSpec{}, fmt.Errorf("bind callback must be a string")
	}
	target := BindingSpec{Hook: hook, Callback: cb}

	if len(args) > 2 {
		p, ok := args[2].(int)
		if !ok {
			return BindingSpec{}, fmt.Errorf("bind priority must be an integer, got %T", args[2])
		}
		target.Priority = &p
	}
	if len(args) > 3 {
		label, ok := args[3].(string)
		if !ok {
			return BindingSpec{}, fmt.Errorf("bind label must be a string, got %T", args[3])
		}
		target.Label = label
	}
	if len(args) > 4 {
		target.Args = args[4:]
	}

	if err := checkBuiltin(target); err != nil {
		return BindingSpec{}, fmt.Errorf("bind target: %w", err)
	}
	return target, nil
}

// builtin builds the callback for b. bind is used by the bind builtin to
// register its target at call time; the bind builtin passes its first
// argument through so it is neutral inside a filter chain.
func builtin(b BindingSpec, bind func(BindingSpec) error) (hooks.Callback, error) {
	if err := checkBuiltin(b); err != nil {
		return nil, err
	}

	switch b.Callback {
	case BuiltinIdentity:
		return func(args []hooks.Value) (hooks.Value, error) {
			if err := hooks.ArgCount(args, 1); err != nil {
				return nil, err
			}
			return args[0], nil
		}, nil

	case BuiltinRecord:
		return hooks.Action(func([]hooks.Value) error { return nil }), nil

	case BuiltinAdd, BuiltinMul:
		operand := b.Args[0]
		op := b.Callback
		return hooks.Transform(func(v hooks.Value, _ []hooks.Value) (hooks.Value, error) {
			return arith(op, v, operand)
		}), nil

	case BuiltinConcat:
		suffix := fmt.Sprint(b.Args[0])
		return hooks.Transform(func(v hooks.Value, _ []hooks.Value) (hooks.Value, error) {
			return fmt.Sprint(v) + suffix, nil
		}), nil

	case BuiltinUpper:
		return hooks.Transform(func(v hooks.Value, _ []hooks.Value) (hooks.Value, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("upper: value must be a string, got %T", v)
			}
			return strings.ToUpper(s), nil
		}), nil

	case BuiltinFail:
		msg := b.Args[0].(string)
		return func([]hooks.Value) (hooks.Value, error) {
			return nil, errors.New(msg)
		}, nil

	case BuiltinBind:
		target, _ := bindTarget(b.Args)
		return func(args []hooks.Value) (hooks.Value, error) {
			if err := bind(target); err != nil {
				return nil, err
			}
			if len(args) == 0 {
				return nil, nil
			}
			return args[0], nil
		}, nil
	}

	return nil, fmt.Errorf("unknown callback %q", b.Callback)
}

// arith applies add or mul. Two integers stay integral; anything else is
// computed in float64.
func arith(op string, v, operand any) (any, error) {
	a, aInt := v.(int)
	b, bInt := operand.(int)
	if aInt && bInt {
		if op == BuiltinAdd {
			return a + b, nil
		}
		return a * b, nil
	}

	af, ok := toFloat(v)
	if !ok {
		return nil, fmt.Errorf("%s: value must be a number, got %T", op, v)
	}
	bf, _ := toFloat(operand)
	if op == BuiltinAdd {
		return af + bf, nil
	}
	return af * bf, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
