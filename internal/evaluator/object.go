package evaluator

import (
	"fmt"

	"github.com/silverneko/ulc/internal/ast"
)

// Value is the result of reducing an (expression, environment) pair one
// step of the way. It has exactly three shapes: Closure, Primitive, and
// NormalForm (§3). A Value never migrates between shapes after creation —
// forcing a slot replaces its content with a new Value rather than
// mutating an existing one in place.
type Value interface {
	value()
}

// Closure is a suspended computation: an expression paired with the
// lexical environment it must be reduced in.
type Closure struct {
	Expr ast.Expr
	Env  *Environment
}

// Primitive is a host callback. It receives the unevaluated argument
// expression and the caller's environment; it alone decides whether, and
// how far, to force that argument.
type Primitive struct {
	Name string
	Fn   func(arg ast.Expr, callerEnv *Environment) Value
}

// NormalForm is an expression already proven irreducible. It carries no
// environment, because nothing under it needs looking up again.
type NormalForm struct {
	Expr ast.Expr
}

func (Closure) value()    {}
func (Primitive) value()  {}
func (NormalForm) value() {}

// IsNormalForm reports whether v is a NormalForm.
func IsNormalForm(v Value) bool {
	_, ok := v.(NormalForm)
	return ok
}

// IsPrimitive reports whether v is a Primitive.
func IsPrimitive(v Value) bool {
	_, ok := v.(Primitive)
	return ok
}

// isFinal reports whether v needs no further reduction: a NormalForm or a
// Primitive. A slot already holding one of these is never recomputed.
func isFinal(v Value) bool {
	return IsNormalForm(v) || IsPrimitive(v)
}

// IsCallable reports whether v can be the left-hand side of Call: a
// Primitive, or a Closure over a Lam. Every Closure WHNF ever produces is
// over a Lam (see the *ast.Lam case in WHNF), so in practice this check
// only ever rejects a NormalForm — a stuck application or a free
// variable — but a hand-built Closure over a non-Lam expression from a
// library embedding is also correctly rejected.
func IsCallable(v Value) bool {
	switch c := v.(type) {
	case Primitive:
		return true
	case Closure:
		return ast.IsLam(c.Expr)
	default:
		return false
	}
}

// Call applies v to an unevaluated argument under the caller's
// environment (§4.3). Calling a non-callable Value is a programmer
// error: whnf only ever calls Call after checking IsCallable, and a
// caller outside the reducer must make the same check first.
func Call(v Value, argExpr ast.Expr, callerEnv *Environment) Value {
	switch c := v.(type) {
	case Primitive:
		return c.Fn(argExpr, callerEnv)
	case Closure:
		if lam, ok := c.Expr.(*ast.Lam); ok {
			arg := Closure{Expr: argExpr, Env: callerEnv}
			return Closure{Expr: lam.Body, Env: c.Env.Insert(lam.Name, arg)}
		}
	}
	panic(fmt.Sprintf("evaluator: Call of a non-callable value (%T)", v))
}

// exprOf extracts the expression carried by a NormalForm. NF returns a
// Primitive rather than a NormalForm for a bare or partially applied
// primitive (`+`, `+ 1`), which has no expression to extract; that case
// raises a recoverable runtimeError (see Eval). Any other non-NormalForm
// is an assertion failure.
func exprOf(v Value) ast.Expr {
	switch x := v.(type) {
	case NormalForm:
		return x.Expr
	case Primitive:
		panicCall("primitive %s is awaiting an argument and has no normal form", x.Name)
	}
	panic(fmt.Sprintf("evaluator: expected a stuck normal form, got %T", v))
}
