// Package diagnostics provides typed, positioned error values shared by
// internal/lexer, internal/parser and internal/evaluator, following the
// shape of the teacher's internal/parser -> internal/diagnostics
// collaboration (diagnostics.NewError(code, token, msg)).
package diagnostics

import (
	"fmt"

	"github.com/silverneko/ulc/internal/token"
)

// Stage identifies which part of the pipeline raised a Diagnostic,
// matching the error kinds enumerated in spec.md §7.
type Stage string

const (
	Lex     Stage = "lex"
	Parse   Stage = "parse"
	Lookup  Stage = "lookup"
	Call    Stage = "call"
	ASTKind Stage = "ast"
)

// Diagnostic is a single positioned error.
type Diagnostic struct {
	Stage   Stage
	Line    int
	Column  int
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Stage, d.Message)
}

// New builds a Diagnostic anchored at tok's position.
func New(stage Stage, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage:   stage,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// Bag collects Diagnostics produced while lexing or parsing one program.
type Bag struct {
	items []*Diagnostic
}

// Add appends d to the bag.
func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// Len reports how many diagnostics have been collected.
func (b *Bag) Len() int {
	return len(b.items)
}

// All returns every collected Diagnostic in the order they were added.
func (b *Bag) All() []*Diagnostic {
	return b.items
}

// Err returns nil if the bag is empty, or a combined error otherwise —
// the shape a library embedding hands back to its caller instead of
// exiting the process (spec.md §7's library-embedding policy).
func (b *Bag) Err() error {
	if len(b.items) == 0 {
		return nil
	}
	return &multiError{items: b.items}
}

type multiError struct {
	items []*Diagnostic
}

func (m *multiError) Error() string {
	if len(m.items) == 1 {
		return m.items[0].Error()
	}
	s := m.items[0].Error()
	return fmt.Sprintf("%s (and %d more)", s, len(m.items)-1)
}

// Unwrap exposes the underlying diagnostics to errors.As/errors.Is chains.
func (m *multiError) Unwrap() []error {
	errs := make([]error, len(m.items))
	for i, d := range m.items {
		errs[i] = d
	}
	return errs
}
