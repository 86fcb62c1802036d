package evaluator

import (
	"sync"

	"github.com/silverneko/ulc/internal/ast"
)

// Environment is a persistent mapping from identifier to a shared,
// mutable value slot. Insert and Erase return a new Environment; the
// receiver is left untouched and any closure that captured it keeps
// seeing exactly what it always saw. Distinct Environments that share a
// common ancestor also share that ancestor's slots, which is what makes
// call-by-need memoisation (§4.4) visible across every alias of a
// binding rather than just one.
//
// The representation is a persistent, singly linked chain of frames —
// the same shape a cons-list environment takes in a classic interpreter,
// generalised with an "erase" frame kind so that Erase doesn't need to
// rebuild anything either. Lookup walks the chain from the newest frame
// outward, so a later Insert or Erase of the same name shadows an
// earlier one without disturbing it.
type Environment struct {
	name   string
	slot   *slot
	erased bool
	parent *Environment
}

// slot is the shared, mutable cell behind one binding. Its content is a
// Value that starts out as a Closure and is overwritten in place the
// first time it is forced (§4.4) — that overwrite is what every alias of
// this Environment generation observes.
type slot struct {
	mu    sync.Mutex
	value Value
}

// force reads the slot's current value. If it is already final (a
// NormalForm or a Primitive — see isFinal) it is returned unchanged
// without recomputation. Otherwise reduce is applied to the slot's
// current (expr, env) pair exactly once, the result is written back, and
// that result is returned. reduce is always either WHNF or NF, so a slot
// forced first by whnf and later by nf simply continues reducing from
// wherever the first force left off.
//
// The write-back is unconditional, matching the reference semantics in
// spec.md §4.4 directly. §5 allows a multi-threaded embedding to instead
// make this a compare-and-set so that a losing concurrent force discards
// its own (observationally equivalent) result; this single-process
// implementation does not need that refinement, since nothing here runs
// two goroutines over the same Environment family.
func (s *slot) force(reduce func(ast.Expr, *Environment) Value) Value {
	s.mu.Lock()
	v := s.value
	s.mu.Unlock()

	if isFinal(v) {
		return v
	}
	cl, ok := v.(Closure)
	if !ok {
		return v
	}

	result := reduce(cl.Expr, cl.Env)

	s.mu.Lock()
	s.value = result
	s.mu.Unlock()
	return result
}

// Insert returns a new Environment binding name to v, shadowing any
// existing binding of name without disturbing it.
func (e *Environment) Insert(name string, v Value) *Environment {
	return &Environment{name: name, slot: &slot{value: v}, parent: e}
}

// Erase returns a new Environment in which name is absent, even if it was
// bound in e. This is how Lam's normal-form case (§4.4 case 3) keeps a
// parameter free inside its own body instead of accidentally capturing a
// same-named enclosing binding.
func (e *Environment) Erase(name string) *Environment {
	return &Environment{name: name, erased: true, parent: e}
}

// Contains reports whether name resolves to a binding in e.
func (e *Environment) Contains(name string) bool {
	_, ok := e.lookupSlot(name)
	return ok
}

// Lookup returns the slot's current raw content for name without forcing
// it. It is exposed for REPL introspection and tests; the reducer itself
// always goes through lookupSlot + slot.force.
func (e *Environment) Lookup(name string) (Value, bool) {
	s, ok := e.lookupSlot(name)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, true
}

func (e *Environment) lookupSlot(name string) (*slot, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			if f.erased {
				return nil, false
			}
			return f.slot, true
		}
	}
	return nil, false
}
