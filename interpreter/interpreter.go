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

// Package interpreter evaluates a parsed syntax tree into an application
// value, by dispatching each rule application to a host-supplied callback.
package interpreter

import (
	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/parser"
)

// Callback computes a rule's value from its Expression view and the
// application's single threaded-through context value.
//
// The reference design threads an arbitrary argument pack through every
// callback; Go generics have no variadic type-parameter pack, so exactly
// one context type parameter A is threaded instead. A host that needs more
// than one value instantiates A as a struct (or pointer to one).
type Callback[R, A any] func(e Expression[R, A], args A) R

// InterpreterError reports a rule application with no evaluator and no
// usable default: either no evaluator was ever set for the rule and
// DefaultEvaluator is nil, or DefaultEvaluator ran out of children to fall
// back on while R is not the void sentinel struct{}.
type InterpreterError struct {
	Tree *parser.SyntaxTree
}

func (e *InterpreterError) Error() string {
	return "no evaluator for rule '" + e.Tree.Rule.Name + "'"
}

// Interpreter maps grammar rules to the callback that evaluates them.
type Interpreter[R, A any] struct {
	evaluators map[*grammar.Rule]Callback[R, A]

	// DefaultEvaluator runs when a rule has no evaluator of its own. It
	// defaults to evaluating every child but the last (for side effects)
	// and returning the last child's value, matching the reference
	// design's __defaultEvaluator. Set to nil to require every visited
	// rule to have an explicit evaluator.
	DefaultEvaluator Callback[R, A]
}

// New returns an Interpreter with the standard default evaluator installed.
func New[R, A any]() *Interpreter[R, A] {
	it := &Interpreter[R, A]{evaluators: make(map[*grammar.Rule]Callback[R, A])}
	it.DefaultEvaluator = it.defaultEvaluate
	return it
}

func (it *Interpreter[R, A]) defaultEvaluate(e Expression[R, A], args A) R {
	n := e.Size()
	if n > 0 {
		for i := 0; i < n-1; i++ {
			e.At(i).Evaluate(args)
		}
		return e.At(n - 1).Evaluate(args)
	}
	var zero R
	if !isVoid[R]() {
		panic(&InterpreterError{Tree: e.syntax})
	}
	return zero
}

// isVoid reports whether R is the void convention type struct{}, the
// idiomatic Go stand-in for a callback that runs purely for side effects
// (there being no "void" instantiation for a Go type parameter).
func isVoid[R any]() bool {
	var v interface{} = *new(R)
	_, ok := v.(struct{})
	return ok
}

// SetEvaluator installs cb as rule's evaluator. Passing a nil cb removes
// any evaluator previously set, falling back to DefaultEvaluator.
func (it *Interpreter[R, A]) SetEvaluator(rule *grammar.Rule, cb Callback[R, A]) {
	if cb == nil {
		delete(it.evaluators, rule)
		return
	}
	it.evaluators[rule] = cb
}

// Interpret wraps tree in the Expression view used to drive evaluation.
func (it *Interpreter[R, A]) Interpret(tree *parser.SyntaxTree) Expression[R, A] {
	return Expression[R, A]{interpreter: it, syntax: tree}
}

// Evaluate interprets tree and evaluates the result in one step.
func (it *Interpreter[R, A]) Evaluate(tree *parser.SyntaxTree, args A) R {
	return it.Interpret(tree).Evaluate(args)
}
