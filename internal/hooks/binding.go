package hooks

// Value is any value passed to or returned from a callback. Filters may
// change its dynamic type from one callback to the next.
type Value = any

// Callback is a bound function. Run passes its params as args and ignores
// the returned value; Filter passes the current value followed by its params
// and uses the returned value as the next current value.
type Callback func(args []Value) (Value, error)

// DefaultPriority is the priority used by BindDefault.
const DefaultPriority = 10

// Binding is one callback attached to one hook.
type Binding struct {
	Hook     string
	Priority int

	// Seq is the registration order, used only to break priority ties.
	Seq int64

	Callback Callback
}

// Action adapts a side-effect function, typically bound for Run.
// Used with Filter it yields nil as the next value.
func Action(fn func(args []Value) error) Callback {
	return func(args []Value) (Value, error) {
		return nil, fn(args)
	}
}

// Transform adapts a value transformer, typically bound for Filter.
// The first argument is split off as the current value; when invoked with
// no arguments at all, value is nil.
func Transform(fn func(value Value, params []Value) (Value, error)) Callback {
	return func(args []Value) (Value, error) {
		if len(args) == 0 {
			return fn(nil, nil)
		}
		return fn(args[0], args[1:])
	}
}
