// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interpreter

import (
	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/parser"
)

// Expression is the view a Callback gets of the rule application it is
// evaluating: the matched text, its position, its rule, and its children
// (each itself an Expression, reinterpreted through the same Interpreter).
type Expression[R, A any] struct {
	interpreter *Interpreter[R, A]
	syntax      *parser.SyntaxTree
}

// Size is the number of child rule applications.
func (e Expression[R, A]) Size() int { return len(e.syntax.Child) }

// View is the matched text.
func (e Expression[R, A]) View() string { return e.syntax.Text() }

// String also returns the matched text, so an Expression prints usefully.
func (e Expression[R, A]) String() string { return e.syntax.Text() }

// Position is the byte offset the match starts at.
func (e Expression[R, A]) Position() int { return e.syntax.Begin }

// Length is the number of bytes matched.
func (e Expression[R, A]) Length() int { return e.syntax.Length() }

// Rule is the grammar rule this expression is an application of.
func (e Expression[R, A]) Rule() *grammar.Rule { return e.syntax.Rule }

// Syntax exposes the underlying syntax tree, for callers that need more
// than the Expression accessors (e.g. SetProgramRule re-interpreting a
// child under a different Interpreter).
func (e Expression[R, A]) Syntax() *parser.SyntaxTree { return e.syntax }

// At returns the i'th child as an Expression over the same Interpreter.
func (e Expression[R, A]) At(i int) Expression[R, A] {
	return e.interpreter.Interpret(e.syntax.Child[i])
}

// Evaluate computes this expression's value: the rule's own evaluator if
// one was set, else the Interpreter's DefaultEvaluator, else an
// InterpreterError.
func (e Expression[R, A]) Evaluate(args A) R {
	if cb, ok := e.interpreter.evaluators[e.syntax.Rule]; ok {
		return cb(e, args)
	}
	if e.interpreter.DefaultEvaluator != nil {
		return e.interpreter.DefaultEvaluator(e, args)
	}
	panic(&InterpreterError{Tree: e.syntax})
}

// EvaluateBy re-interprets e's syntax tree under a different Interpreter
// (with possibly different result and context types) and evaluates it with
// args. This is a package-level function, not a method, because Go methods
// cannot introduce type parameters beyond their receiver's.
func EvaluateBy[R, A, R2, A2 any](e Expression[R, A], other *Interpreter[R2, A2], args A2) R2 {
	return other.Evaluate(e.syntax, args)
}
