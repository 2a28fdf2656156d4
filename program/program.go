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

// Package program bundles a Parser and an Interpreter into the single
// object a host actually runs: parse, then interpret, then evaluate.
package program

import (
	"fmt"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/interpreter"
	"github.com/go-peg/pegx/parser"
)

// SyntaxError reports that parsing failed, or succeeded but left input
// unconsumed. Syntax is the furthest-reaching failure the parser found
// (parser.Result.Error), which is usually more useful to a human than the
// top-level failure alone.
type SyntaxError struct {
	Syntax *parser.SyntaxTree
}

func (e *SyntaxError) Error() string {
	if e.Syntax == nil {
		return "syntax error"
	}
	name := "<unknown>"
	if e.Syntax.Rule != nil {
		name = e.Syntax.Rule.Name
	}
	return fmt.Sprintf("syntax error at character %d while parsing %s", e.Syntax.End+1, name)
}

// Program is a parser and an interpreter for the same grammar, run
// together as one step.
type Program[R, A any] struct {
	Parser      *parser.Parser
	Interpreter *interpreter.Interpreter[R, A]
}

// New returns a Program whose start rule is initially "undefined" (an
// always-failing placeholder), matching the reference design's default
// grammar. Callers building a grammar programmatically should set
// p.Parser.Start once it is assembled; Generator does this via SetStart.
func New[R, A any]() *Program[R, A] {
	return &Program[R, A]{
		Parser:      parser.New(grammar.NewRule("undefined", grammar.Error())),
		Interpreter: interpreter.New[R, A](),
	}
}

// Parse runs the parser alone, without interpreting the result.
func (p *Program[R, A]) Parse(input string) (parser.Result, error) {
	return p.Parser.Parse(input)
}

// Interpret wraps an already-parsed tree for evaluation, refusing an
// invalid tree with a SyntaxError.
func (p *Program[R, A]) Interpret(tree *parser.SyntaxTree) (interpreter.Expression[R, A], error) {
	if tree == nil || !tree.Valid {
		return interpreter.Expression[R, A]{}, &SyntaxError{Syntax: tree}
	}
	return p.Interpreter.Interpret(tree), nil
}

// Run parses input, requires a full match, and evaluates the result with
// args. A grammar defect during parsing or evaluation (*grammar.GrammarError
// or *interpreter.InterpreterError) is recovered here and returned as err,
// alongside the ordinary *SyntaxError case for a failed or partial parse.
func (p *Program[R, A]) Run(input string, args A) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *grammar.GrammarError:
				err = e
			case *interpreter.InterpreterError:
				err = e
			default:
				panic(r)
			}
		}
	}()

	res, perr := p.Parse(input)
	if perr != nil {
		err = perr
		return
	}
	if res.Syntax == nil || !res.Syntax.Valid || res.Syntax.End != len(input) {
		err = &SyntaxError{Syntax: res.Error}
		return
	}

	expr := p.Interpreter.Interpret(res.Syntax)
	result = expr.Evaluate(args)
	return
}
