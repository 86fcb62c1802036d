// Package evaluator implements the persistent environment, the
// three-shape Value representation, and the mutually recursive whnf/nf
// reducers described in spec.md §3-§4: capture-avoiding, lazily shared
// beta reduction over internal/ast expression trees.
package evaluator

import (
	"fmt"

	"github.com/silverneko/ulc/internal/ast"
	"github.com/silverneko/ulc/internal/diagnostics"
)

// runtimeError is the panic payload for the errors reachable only
// through the primitive protocol: an environment lookup of an absent
// identifier in a context that requires a bound value (panicLookup), and
// a primitive that cannot use its operand — a non-integer, a zero
// divisor, or a primitive where a normal form is needed (panicCall). It
// is recovered by Eval and turned into a typed error; a bare free
// variable encountered by WHNF/NF itself is never an error (see the
// *ast.Var cases below) and never produces one of these.
type runtimeError struct {
	diag *diagnostics.Diagnostic
}

func (r runtimeError) Error() string { return r.diag.Error() }

func panicLookup(name string) {
	panic(runtimeError{diag: &diagnostics.Diagnostic{
		Stage:   diagnostics.Lookup,
		Message: fmt.Sprintf("unbound identifier required by a primitive: %s", name),
	}})
}

func panicCall(format string, args ...any) {
	panic(runtimeError{diag: &diagnostics.Diagnostic{
		Stage:   diagnostics.Call,
		Message: fmt.Sprintf(format, args...),
	}})
}

// MustLookup returns the value bound to name, or panics with a
// runtimeError if it is absent. Primitives that genuinely need a bound
// value (as opposed to deferring resolution by returning an unevaluated
// reference, the way the boolean-returning comparison primitives in
// prelude.go do) call this instead of a bare Contains/Lookup pair.
func (e *Environment) MustLookup(name string) Value {
	if v, ok := e.Lookup(name); ok {
		return v
	}
	panicLookup(name)
	panic("unreachable")
}

// WHNF reduces e to weak head normal form: the outermost constructor is
// final (a literal, a lambda closure, a primitive, or a stuck
// application), but sub-expressions may still contain redexes (§4.4).
func WHNF(e ast.Expr, env *Environment) Value {
	switch n := e.(type) {
	case *ast.Const:
		return NormalForm{Expr: e}

	case *ast.Var:
		if s, ok := env.lookupSlot(n.Name); ok {
			return s.force(WHNF)
		}
		return NormalForm{Expr: e}

	case *ast.Lam:
		return Closure{Expr: e, Env: env}

	case *ast.Ap:
		head := WHNF(n.Fun, env)
		if IsCallable(head) {
			result := Call(head, n.Arg, env)
			if isFinal(result) {
				return result
			}
			cl := result.(Closure)
			return WHNF(cl.Expr, cl.Env)
		}
		stuck := &ast.Ap{Fun: exprOf(head), Arg: exprOf(NF(n.Arg, env))}
		return NormalForm{Expr: stuck}

	case *ast.Nothing:
		panic("evaluator: whnf of a malformed (Nothing) expression")

	default:
		panic(fmt.Sprintf("evaluator: whnf of unexpected node %T", e))
	}
}

// NF reduces e to full normal form: no redex remains anywhere in the
// result (§4.4).
func NF(e ast.Expr, env *Environment) Value {
	switch n := e.(type) {
	case *ast.Const:
		return NormalForm{Expr: e}

	case *ast.Var:
		if s, ok := env.lookupSlot(n.Name); ok {
			return s.force(NF)
		}
		return NormalForm{Expr: e}

	case *ast.Lam:
		// Erasing the parameter while normalising the body is what keeps
		// it free inside the body instead of capturing a same-named
		// enclosing binding (§4.4 case 3, §8 "capture avoidance").
		body := exprOf(NF(n.Body, env.Erase(n.Name)))

		// n.Name never occurred free in the original body, so any
		// occurrence of it in the reduced body arrived there by
		// substituting in some unrelated value from an enclosing scope
		// (e.g. nf((\x \y x) y, ∅), where the argument y is spliced in
		// for x). Printing that under a Lam named n.Name would silently
		// capture it on reparse, so only the binder is renamed, to a
		// symbol the body doesn't mention (§8 "capture avoidance":
		// nf((\x \y x) y, ∅) = \y' y).
		name := n.Name
		if !ast.OccursFree(n.Name, n.Body) && ast.OccursFree(n.Name, body) {
			name = freshName(n.Name, body)
		}
		return NormalForm{Expr: &ast.Lam{Name: name, Body: body}}

	case *ast.Ap:
		head := WHNF(n.Fun, env)
		if IsCallable(head) {
			result := Call(head, n.Arg, env)
			if isFinal(result) {
				return result
			}
			cl := result.(Closure)
			return NF(cl.Expr, cl.Env)
		}
		stuck := &ast.Ap{Fun: exprOf(head), Arg: exprOf(NF(n.Arg, env))}
		return NormalForm{Expr: stuck}

	case *ast.Nothing:
		panic("evaluator: nf of a malformed (Nothing) expression")

	default:
		panic(fmt.Sprintf("evaluator: nf of unexpected node %T", e))
	}
}

// freshName extends base with enough trailing apostrophes to stop
// occurring free in body.
func freshName(base string, body ast.Expr) string {
	candidate := base + "'"
	for ast.OccursFree(candidate, body) {
		candidate += "'"
	}
	return candidate
}

// Eval reduces e to full normal form and returns its expression,
// recovering the runtime errors the primitive protocol can raise (an
// unbound identifier a primitive required, an operand a primitive cannot
// use, or a result that is still a primitive awaiting an argument) as a
// typed error rather than letting them escape as a panic. A Call of a
// non-callable value or reduction of a malformed AST node remain unrecovered panics,
// per spec.md §7 items 4-5: both are documented as unreachable under a
// correct implementation, i.e. assertions, not user-facing errors.
func Eval(e ast.Expr, env *Environment) (result ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()
	return exprOf(NF(e, env)), nil
}
