package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/silverneko/ulc/internal/ast"
	"github.com/silverneko/ulc/internal/evaluator"
	"github.com/silverneko/ulc/internal/parser"
)

// eval parses src under the standard prelude and returns the pretty
// printed normal form, failing the test on any parse or runtime error.
func eval(t *testing.T, src string) string {
	t.Helper()
	expr, err := parser.Parse(src)
	require.NoError(t, err)

	env := evaluator.NewPrelude(evaluator.IOContext{})
	result, err := evaluator.Eval(expr, env)
	require.NoError(t, err)
	return ast.Pretty(result)
}

func TestIdentity(t *testing.T) {
	require.Equal(t, "1", eval(t, `(\x x) 1`))
}

func TestArithmetic(t *testing.T) {
	require.Equal(t, "7", eval(t, `+ 3 4`))
	require.Equal(t, "-1", eval(t, `- 3 4`))
	require.Equal(t, "12", eval(t, `* 3 4`))
}

func TestShortCircuitMultiplication(t *testing.T) {
	// `* 0 (Y (\f f))` must not force its second argument, since Y (\f f)
	// never reaches a normal form (spec.md §8).
	require.Equal(t, "0", eval(t, `* 0 (Y (\f f))`))
}

func TestIfOverChurchBooleans(t *testing.T) {
	require.Equal(t, "1", eval(t, `if true 1 2`))
	require.Equal(t, "2", eval(t, `if false 1 2`))
	require.Equal(t, "1", eval(t, `if (<= 1 2) 1 2`))
}

func TestYCombinatorFactorial(t *testing.T) {
	src := `Y (\f \n if (<= n 1) 1 (* n (f (- n 1)))) 5`
	require.Equal(t, "120", eval(t, src))
}

func TestCaptureAvoidance(t *testing.T) {
	// nf((\x \y x) y, ∅) must not let the argument `y` be captured by the
	// lambda's own bound `y`; the result renames the bound variable
	// (spec.md §8 "capture avoidance").
	expr, err := parser.Parse(`(\x \y x) y`)
	require.NoError(t, err)

	var env *evaluator.Environment
	result, err := evaluator.Eval(expr, env)
	require.NoError(t, err)

	pretty := ast.Pretty(result)
	require.True(t, strings.HasPrefix(pretty, `\`))
	require.True(t, strings.HasSuffix(pretty, " y"))
	bound := strings.TrimSuffix(strings.TrimPrefix(pretty, `\`), " y")
	bound = strings.Fields(bound)[0]
	require.NotEqual(t, "y", bound)
}

func TestStuckHeadPreservesFreeApplication(t *testing.T) {
	// nf(f 1 2, ∅) has no bindings to reduce against, so it must print
	// back out unchanged as a stuck application (spec.md §8).
	expr, err := parser.Parse(`f 1 2`)
	require.NoError(t, err)

	var env *evaluator.Environment
	result, err := evaluator.Eval(expr, env)
	require.NoError(t, err)
	require.Equal(t, "f 1 2", ast.Pretty(result))
}

func TestLetDesugarsToApplication(t *testing.T) {
	require.Equal(t, "3", eval(t, `let x 1 in let y 2 in + x y`))
}

func TestCallByNeedMemoisesSharedBinding(t *testing.T) {
	// A variable bound by a lambda that is referenced twice in the body
	// must only be reduced once: the second reference reads the value the
	// first one memoised into the binding's slot.
	require.Equal(t, "8", eval(t, `(\x + x x) 4`))

	// `count` returns how many times it has been called, so a second
	// reduction of the argument would make the sum 1 + 2 instead of 1 + 1.
	calls := 0
	env := evaluator.NewPrelude(evaluator.IOContext{}).Insert("count", evaluator.Primitive{Name: "count", Fn: func(ast.Expr, *evaluator.Environment) evaluator.Value {
		calls++
		return evaluator.NormalForm{Expr: &ast.Const{Val: calls}}
	}})
	expr, err := parser.Parse(`(\x + x x) (count 0)`)
	require.NoError(t, err)
	result, err := evaluator.Eval(expr, env)
	require.NoError(t, err)
	require.Equal(t, "2", ast.Pretty(result))
	require.Equal(t, 1, calls)
}

func TestParsePrintRoundTrip(t *testing.T) {
	const src = `\x \y x y`
	expr, err := parser.Parse(src)
	require.NoError(t, err)
	require.Equal(t, src, ast.Pretty(expr))

	reparsed, err := parser.Parse(ast.Pretty(expr))
	require.NoError(t, err)
	// cmp.Diff walks the two trees field by field, so a mismatch anywhere
	// under an Ap/Lam reports exactly which node diverged rather than
	// just that two opaque strings differ.
	if diff := cmp.Diff(expr, reparsed); diff != "" {
		t.Errorf("parse(pretty(e)) structurally differs from e (-want +got):\n%s", diff)
	}
}

func TestPutCharWritesToSuppliedStream(t *testing.T) {
	var buf bytes.Buffer
	env := evaluator.NewPrelude(evaluator.IOContext{Out: &buf})

	expr, err := parser.Parse(`runIO (>> (putChar 65) (pureIO 0))`)
	require.NoError(t, err)

	_, err = evaluator.Eval(expr, env)
	require.NoError(t, err)
	require.Equal(t, "A", buf.String())
}

func TestGetCharReadsFromSuppliedStream(t *testing.T) {
	// runIO (>>= getChar pureIO) reduces to the pair (charCode, worldToken);
	// applying `true` (the first-of-pair selector) to it reads off the
	// character getChar produced.
	in := strings.NewReader("Z")
	env := evaluator.NewPrelude(evaluator.IOContext{In: in})

	expr, err := parser.Parse(`runIO (>>= getChar pureIO) true`)
	require.NoError(t, err)

	result, err := evaluator.Eval(expr, env)
	require.NoError(t, err)
	require.Equal(t, "90", ast.Pretty(result))
}
