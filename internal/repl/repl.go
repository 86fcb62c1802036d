// Package repl implements the line-edited, multi-line front-end spec.md
// §6 describes as an external collaborator: a peterh/liner-backed read
// loop with history, `:let`/`:quit` directives, and continuation while
// open parens outnumber closing ones.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/silverneko/ulc/internal/ast"
	"github.com/silverneko/ulc/internal/evaluator"
	"github.com/silverneko/ulc/internal/parser"
)

// REPL reads expressions from an interactive terminal, evaluates each
// one against a shared, growing environment, and prints its normal form.
type REPL struct {
	Env   *evaluator.Environment
	Out   io.Writer
	Color bool

	quit bool
}

// New builds a REPL over env, printing results and diagnostics to out.
func New(env *evaluator.Environment, out io.Writer, useColor bool) *REPL {
	return &REPL{Env: env, Out: out, Color: useColor}
}

// Run drives the read-eval-print loop until the user quits (`:q`,
// `:quit`, EOF, or Ctrl-D/Ctrl-C). Each top-level evaluation gets a
// fresh run UUID, which is printed after that entry's error message if
// it fails; results and the program's own I/O output are printed
// without it.
func (r *REPL) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var buf strings.Builder
	depth := 0
	prompt := "ulc> "

	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(input)

		if depth == 0 && r.handleDirective(strings.TrimSpace(input)) {
			if r.quit {
				return nil
			}
			continue
		}

		buf.WriteString(input)
		buf.WriteByte('\n')
		depth += parenDelta(input)

		if depth > 0 {
			prompt = "...> "
			continue
		}
		prompt = "ulc> "

		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}
		r.evalAndPrint(src, uuid.New())
	}
}

// handleDirective recognizes `:q`, `:quit`, and `:let NAME EXPR`,
// reporting whether input was one of them. `:let` parses EXPR once and
// binds NAME to a Closure over it, lazily, exactly the way the prelude's
// bindSource binds a combinator — later REPL entries (and later :let
// directives) see NAME through r.Env the same way a prelude definition
// sees an earlier one.
func (r *REPL) handleDirective(input string) bool {
	switch {
	case input == ":q" || input == ":quit":
		r.quit = true
		return true

	case strings.HasPrefix(input, ":let "):
		rest := strings.TrimSpace(strings.TrimPrefix(input, ":let "))
		name, src, ok := strings.Cut(rest, " ")
		if !ok || name == "" {
			fmt.Fprintln(r.Out, "usage: :let NAME EXPR")
			return true
		}
		expr, err := parser.Parse(src)
		if err != nil {
			r.printErr(err, uuid.New())
			return true
		}
		r.Env = r.Env.Insert(name, evaluator.Closure{Expr: expr, Env: r.Env})
		return true

	default:
		return false
	}
}

func (r *REPL) evalAndPrint(src string, runID uuid.UUID) {
	expr, err := parser.Parse(src)
	if err != nil {
		r.printErr(err, runID)
		return
	}
	result, err := evaluator.Eval(expr, r.Env)
	if err != nil {
		r.printErr(err, runID)
		return
	}
	r.printf("%s\n", ast.Pretty(result))
}

func (r *REPL) printErr(err error, runID uuid.UUID) {
	msg := fmt.Sprintf("error: %v", err)
	if r.Color {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintf(r.Out, "%s [%s]\n", msg, runID)
}

func (r *REPL) printf(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if r.Color {
		s = color.New(color.FgGreen).Sprint(s)
	}
	fmt.Fprint(r.Out, s)
}

func parenDelta(s string) int {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}
