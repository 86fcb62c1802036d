package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/silverneko/ulc/internal/ast"
	"github.com/silverneko/ulc/internal/parser"
)

// IOContext supplies the host streams the putChar/getChar primitives
// read and write. The zero value uses os.Stdin/os.Stdout.
type IOContext struct {
	In  io.Reader
	Out io.Writer
}

func (c IOContext) resolve() IOContext {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return c
}

// NewPrelude builds the initial environment: the combinators and
// host primitives spec.md §4.5 and §9 describe, bound in exactly the
// order the original implementation bound them in (several definitions
// below, `>=`, depend on that order for their — intentionally
// preserved — bug; see bindSource's doc comment).
func NewPrelude(io IOContext) *Environment {
	io = io.resolve()

	var env *Environment
	env = bindSource(env, "true", `\a \b a`)
	env = bindSource(env, "false", `\a \b b`)
	env = bindSource(env, "if", `\pred \then \else pred then else`)
	env = bindSource(env, "not", `\x x false true`)
	env = bindSource(env, "and", `\x \y x y false`)
	env = bindSource(env, "or", `\x \y x true y`)

	env = bindPrimitive(env, "Y", primY)
	// Yuser is the user-level fixed point \f (\x f (x x)) (\x f (x x)),
	// bound under its own name beside the primitive Y (spec.md §9's open
	// question on Y). Because each (x x) is only forced when f uses its
	// argument, it reaches the same answers as Y for ordinary recursive
	// definitions such as factorial; every program that looks up plain
	// "Y" gets the primitive.
	env = bindSource(env, "Yuser", `\f (\x f (x x)) (\x f (x x))`)

	env = bindArith(env, "+", func(a, b int) int { return a + b })
	env = bindArith(env, "-", func(a, b int) int { return a - b })
	env = bindMul(env)
	env = bindArith(env, "/", func(a, b int) int {
		if b == 0 {
			panicCall("division by zero in `/`")
		}
		return a / b
	})
	env = bindArith(env, "mod", func(a, b int) int {
		if b == 0 {
			panicCall("division by zero in `mod`")
		}
		return a % b
	})

	env = bindCompare(env, "==", func(a, b int) bool { return a == b })
	env = bindCompare(env, "<", func(a, b int) bool { return a < b })
	env = bindCompare(env, "<=", func(a, b int) bool { return a <= b })

	env = bindSource(env, "flip", `\f \x \y f y x`)
	env = bindSource(env, "!=", `\a \b not (== a b)`)
	env = bindSource(env, ">", `flip <`)
	// >= is self-referential in the original source (a known bug, per
	// spec.md §9: "treat as a known source bug"). Because bindSource
	// captures the environment as it stood *before* this Insert, the
	// closure's body `flip >=` resolves its own `>=` as a free symbol,
	// not as itself — so looking `>=` up does not hang, but applying it
	// fully normalises to a stuck application carrying the bare symbol
	// `>=`. See internal/evaluator/prelude_test.go.
	env = bindSource(env, ">=", `flip >=`)

	env = bindSource(env, ">>=", `\m \f \s (m s) \a \s' f a s'`)
	env = bindSource(env, ">>", `\ma \mb >>= ma (\_ mb)`)
	env = bindSource(env, "runIO", `\m m s`)
	env = bindSource(env, "pair", `\a \b \p p a b`)
	env = bindSource(env, "pureIO", `pair`)

	env = bindPrimitive(env, "putChar", primPutChar(io.Out))
	env = bindPrimitive(env, "getChar", primGetChar(io.In))

	return env
}

// bindSource parses src with the same parser used for program text and
// binds name to a Closure over the result, captured under env as it
// stood before this call — exactly the original's Context::add(name,
// string) idiom. Because each call threads the returned environment into
// the next, a later definition can reference any earlier one, but never
// itself (unless, as with `>=`, the source text happens to reuse its own
// name and a later Insert of the same name shadows — but does not
// retroactively rewrite — the captured closure).
func bindSource(env *Environment, name, src string) *Environment {
	expr, err := parser.Parse(src)
	if err != nil {
		panic(fmt.Sprintf("evaluator: malformed prelude binding %q: %v", name, err))
	}
	return env.Insert(name, Closure{Expr: expr, Env: env})
}

func bindPrimitive(env *Environment, name string, fn func(ast.Expr, *Environment) Value) *Environment {
	return env.Insert(name, Primitive{Name: name, Fn: fn})
}

// forceInt fully reduces expr and requires the result to be an integer
// literal, the shape every arithmetic/comparison primitive needs its
// operands in.
func forceInt(expr ast.Expr, env *Environment) int {
	v := exprOf(NF(expr, env))
	c, ok := v.(*ast.Const)
	if !ok {
		panicCall("expected an integer, got %s", ast.Pretty(v))
	}
	return c.Val
}

// continueWHNF advances v to weak head normal form if it is not already
// final, the same "maybe reduce once more" step whnf/nf apply after
// Call. Primitives that build a further Closure and must immediately act
// on its outermost shape (the IO primitives' pair-continuation plumbing)
// use this instead of duplicating the check.
func continueWHNF(v Value) Value {
	if isFinal(v) {
		return v
	}
	cl := v.(Closure)
	return WHNF(cl.Expr, cl.Env)
}

func bindArith(env *Environment, name string, op func(a, b int) int) *Environment {
	return bindPrimitive(env, name, func(aExpr ast.Expr, aEnv *Environment) Value {
		a := forceInt(aExpr, aEnv)
		return Primitive{Name: name, Fn: func(bExpr ast.Expr, bEnv *Environment) Value {
			b := forceInt(bExpr, bEnv)
			return NormalForm{Expr: &ast.Const{Val: op(a, b)}}
		}}
	})
}

// bindMul is bindArith's `*` special case: it must not force its second
// operand when the first is zero (spec.md §4.5, §8 "short-circuit
// multiplication").
func bindMul(env *Environment) *Environment {
	return bindPrimitive(env, "*", func(aExpr ast.Expr, aEnv *Environment) Value {
		a := forceInt(aExpr, aEnv)
		return Primitive{Name: "*", Fn: func(bExpr ast.Expr, bEnv *Environment) Value {
			if a == 0 {
				return NormalForm{Expr: &ast.Const{Val: 0}}
			}
			b := forceInt(bExpr, bEnv)
			return NormalForm{Expr: &ast.Const{Val: a * b}}
		}}
	})
}

// bindCompare wires a comparison primitive that returns an unevaluated
// reference to `true`/`false` under the caller's environment, rather
// than a boolean value of its own — the language has no boolean type,
// only church-encoded closures the prelude already binds (spec.md §4.5).
func bindCompare(env *Environment, name string, op func(a, b int) bool) *Environment {
	return bindPrimitive(env, name, func(aExpr ast.Expr, aEnv *Environment) Value {
		a := forceInt(aExpr, aEnv)
		return Primitive{Name: name, Fn: func(bExpr ast.Expr, bEnv *Environment) Value {
			b := forceInt(bExpr, bEnv)
			name := "false"
			if op(a, b) {
				name = "true"
			}
			return Closure{Expr: &ast.Var{Name: name}, Env: bEnv}
		}}
	})
}

// primY implements the fixed-point primitive: Y f reduces to
// f (Y f) without ever forcing f itself, so under call-by-need it stays
// productive even though the equivalent user-level definition diverges
// (spec.md §4.5, §9).
func primY(fExpr ast.Expr, callerEnv *Environment) Value {
	inner := &ast.Ap{Fun: &ast.Var{Name: "Y"}, Arg: fExpr}
	return Closure{Expr: &ast.Ap{Fun: fExpr, Arg: inner}, Env: callerEnv}
}

// primPutChar implements the state-passing IO idiom described in
// spec.md §4.5: `putChar c` returns a value that, applied to a world
// token `s`, performs the write and returns `pair nil s` — built inline
// rather than by invoking the `pair` combinator, matching the original.
func primPutChar(out io.Writer) func(ast.Expr, *Environment) Value {
	return func(charExpr ast.Expr, charEnv *Environment) Value {
		return Primitive{Name: "putChar", Fn: func(sExpr ast.Expr, sEnv *Environment) Value {
			c := forceInt(charExpr, charEnv)
			fmt.Fprintf(out, "%c", rune(c))
			return Primitive{Name: "putChar:pair", Fn: func(pExpr ast.Expr, pEnv *Environment) Value {
				step1 := continueWHNF(Call(WHNF(pExpr, pEnv), &ast.Var{Name: "nil"}, nil))
				return continueWHNF(Call(step1, sExpr, sEnv))
			}}
		}}
	}
}

// primGetChar mirrors primPutChar: the read happens as soon as the world
// token is supplied, one step before the pair deconstructor is known, so
// that sequencing through `>>=` drives the read at the right point.
func primGetChar(in io.Reader) func(ast.Expr, *Environment) Value {
	return func(sExpr ast.Expr, sEnv *Environment) Value {
		buf := make([]byte, 1)
		n, _ := in.Read(buf)
		c := -1
		if n > 0 {
			c = int(buf[0])
		}
		return Primitive{Name: "getChar:pair", Fn: func(pExpr ast.Expr, pEnv *Environment) Value {
			step1 := continueWHNF(Call(WHNF(pExpr, pEnv), &ast.Const{Val: c}, nil))
			return continueWHNF(Call(step1, sExpr, sEnv))
		}}
	}
}
