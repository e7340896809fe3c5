// Package script runs hook scenarios described in YAML.
//
// A scenario binds builtin callbacks to hooks and then triggers those hooks
// step by step, checking outputs, errors and call order. Every run uses a
// fresh registry with deterministic sequence numbers and dispatch ids, so
// the resulting trace can be compared against golden files.
//
// # Scenario Format
//
//	name: price_tie_break
//	description: "Equal priorities run in registration order"
//	level: all
//	bindings:
//	  - hook: price
//	    callback: mul
//	    args: [11]
//	  - hook: price
//	    callback: add
//	    args: [2]
//	steps:
//	  - filter: price
//	    value: 10
//	    expect: 112
//	    expect_calls: [mul, add]
//
// Documents are checked against an embedded CUE schema before decoding.
//
// # Builtin Callbacks
//
//   - identity: returns its first argument
//   - record: does nothing; used to observe call order
//   - add, mul: arithmetic with the binding's single numeric arg
//   - concat: appends the binding's arg to the value as text
//   - upper: upper-cases a string value
//   - fail: returns an error with the binding's message
//   - bind: binds [hook, callback, priority?, label?, args...] when called
package script
