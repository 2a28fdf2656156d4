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

package generator

import (
	"sync"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/interpreter"
	"github.com/go-peg/pegx/parser"
	"github.com/go-peg/pegx/presets"
	"github.com/go-peg/pegx/program"
)

var (
	bootOnce  sync.Once
	bootState *program.Program[*grammar.Node, RuleGetter]
)

// bootstrapProgram returns the self-grammar, built once directly from
// grammar.Node constructors (not parsed from its own grammar text) — the
// same way the reference implementation's self-grammar is hand-assembled
// rather than bootstrapped from PEG source.
func bootstrapProgram() *program.Program[*grammar.Node, RuleGetter] {
	bootOnce.Do(func() { bootState = buildBootstrap() })
	return bootState
}

func buildBootstrap() *program.Program[*grammar.Node, RuleGetter] {
	it := interpreter.New[*grammar.Node, RuleGetter]()

	characterProgram := presets.Character(nil)
	stringProgram := presets.String("'", "'")

	ws := grammar.NewRule("Whitespace", grammar.ZeroOrMore(grammar.Choice(grammar.Word(" "), grammar.Word("\t"))))
	ws.Hidden = true
	withWS := func(n *grammar.Node) *grammar.Node {
		return grammar.Sequence(grammar.RuleNode(ws), n, grammar.RuleNode(ws))
	}

	// Forward declarations: Expression and Atomic are mutually recursive
	// through Brackets ("(" Expression ")") and the predicates ("&Atomic",
	// "!Atomic"), so their bodies are filled in after every rule they
	// depend on exists.
	expressionRule := grammar.NewRule("Expression", grammar.Error())
	atomicRule := grammar.NewRule("Atomic", grammar.Error())

	emptyRule := grammar.NewRule("Empty", grammar.Word("''"))
	it.SetEvaluator(emptyRule, func(interpreter.Expression[*grammar.Node, RuleGetter], RuleGetter) *grammar.Node {
		return grammar.Empty()
	})

	wordRule := grammar.NewRule("Word", grammar.RuleNode(stringProgram.Parser.Start))
	it.SetEvaluator(wordRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], _ RuleGetter) *grammar.Node {
		text := stringProgram.Interpreter.Evaluate(e.Syntax().Child[0], struct{}{})
		return grammar.Word(text)
	})

	endOfFileRule := grammar.NewRule("EndOfFile", grammar.Word("<EOF>"))
	it.SetEvaluator(endOfFileRule, func(interpreter.Expression[*grammar.Node, RuleGetter], RuleGetter) *grammar.Node {
		return grammar.EndOfFile()
	})

	anyRule := grammar.NewRule("Any", grammar.Word("."))
	it.SetEvaluator(anyRule, func(interpreter.Expression[*grammar.Node, RuleGetter], RuleGetter) *grammar.Node {
		return grammar.Any()
	})

	singleCharRule := grammar.NewRule("SingleChar", grammar.Sequence(
		grammar.Not(grammar.Choice(grammar.Word("-"), grammar.Word("]"))),
		grammar.RuleNode(characterProgram.Parser.Start),
	))
	it.SetEvaluator(singleCharRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], _ RuleGetter) *grammar.Node {
		r := characterProgram.Interpreter.Evaluate(e.Syntax().Child[0], struct{}{})
		return grammar.Word(string(r))
	})

	rangeRule := grammar.NewRule("Range", grammar.Sequence(
		grammar.RuleNode(singleCharRule), grammar.Word("-"), grammar.RuleNode(singleCharRule),
	))
	it.SetEvaluator(rangeRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], _ RuleGetter) *grammar.Node {
		lo := characterProgram.Interpreter.Evaluate(e.At(0).Syntax().Child[0], struct{}{})
		hi := characterProgram.Interpreter.Evaluate(e.At(1).Syntax().Child[0], struct{}{})
		return grammar.Range(byte(lo), byte(hi))
	})

	selectElementRule := grammar.NewRule("SelectElement", grammar.Choice(
		grammar.RuleNode(rangeRule), grammar.RuleNode(singleCharRule),
	))
	// Exactly one alternative ever matches, so the default evaluator
	// (delegate to the single child) is already correct here.

	selectRule := grammar.NewRule("Select", grammar.Sequence(
		grammar.Word("["), grammar.ZeroOrMore(grammar.RuleNode(selectElementRule)), grammar.Word("]"),
	))
	it.SetEvaluator(selectRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		if e.Size() == 0 {
			return grammar.Error()
		}
		if e.Size() == 1 {
			return e.At(0).Evaluate(args)
		}
		items := make([]*grammar.Node, e.Size())
		for i := range items {
			items[i] = e.At(i).Evaluate(args)
		}
		return grammar.Choice(items...)
	})

	identRule := grammar.NewRule("Identifier", grammar.Sequence(
		grammar.Choice(grammar.Range('a', 'z'), grammar.Range('A', 'Z'), grammar.Word("_")),
		grammar.ZeroOrMore(grammar.Choice(
			grammar.Range('a', 'z'), grammar.Range('A', 'Z'), grammar.Range('0', '9'), grammar.Word("_"),
		)),
	))

	ruleRefRule := grammar.NewRule("RuleRef", grammar.RuleNode(identRule))
	it.SetEvaluator(ruleRefRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		return args(e.View())
	})

	bracketsRule := grammar.NewRule("Brackets", grammar.Sequence(
		grammar.Word("("), grammar.RuleNode(expressionRule), grammar.Word(")"),
	))
	// Single child (Expression) -- default evaluator delegates correctly.

	andPredicateRule := grammar.NewRule("AndPredicate", grammar.Sequence(grammar.Word("&"), grammar.RuleNode(atomicRule)))
	it.SetEvaluator(andPredicateRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		return grammar.Also(e.At(0).Evaluate(args))
	})

	notPredicateRule := grammar.NewRule("NotPredicate", grammar.Sequence(grammar.Word("!"), grammar.RuleNode(atomicRule)))
	it.SetEvaluator(notPredicateRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		return grammar.Not(e.At(0).Evaluate(args))
	})

	// Empty must be tried before Word: "''" (two adjacent quotes) would
	// otherwise parse as an empty Word literal instead of the EMPTY node.
	atomicRule.Node = withWS(grammar.Choice(
		grammar.RuleNode(andPredicateRule),
		grammar.RuleNode(notPredicateRule),
		grammar.RuleNode(emptyRule),
		grammar.RuleNode(wordRule),
		grammar.RuleNode(bracketsRule),
		grammar.RuleNode(endOfFileRule),
		grammar.RuleNode(anyRule),
		grammar.RuleNode(selectRule),
		grammar.RuleNode(ruleRefRule),
	))
	// Exactly one alternative matches -- default evaluator is correct.

	starRule := grammar.NewRule("Star", grammar.Word("*"))
	plusRule := grammar.NewRule("Plus", grammar.Word("+"))
	questionRule := grammar.NewRule("Question", grammar.Word("?"))

	unaryRule := grammar.NewRule("Unary", grammar.Sequence(
		grammar.RuleNode(atomicRule),
		grammar.Optional(grammar.Choice(grammar.RuleNode(starRule), grammar.RuleNode(plusRule), grammar.RuleNode(questionRule))),
	))
	it.SetEvaluator(unaryRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		base := e.At(0).Evaluate(args)
		if e.Size() == 1 {
			return base
		}
		switch e.At(1).Rule().Name {
		case "Star":
			return grammar.ZeroOrMore(base)
		case "Plus":
			return grammar.OneOrMore(base)
		case "Question":
			return grammar.Optional(base)
		default:
			panic(&grammar.GrammarError{Kind: "INVALID_GRAMMAR", Node: e.At(1).Rule().Node})
		}
	})

	sequenceRule := grammar.NewRule("Sequence", grammar.OneOrMore(grammar.RuleNode(unaryRule)))
	it.SetEvaluator(sequenceRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		if e.Size() == 1 {
			return e.At(0).Evaluate(args)
		}
		items := make([]*grammar.Node, e.Size())
		for i := range items {
			items[i] = e.At(i).Evaluate(args)
		}
		return grammar.Sequence(items...)
	})

	choiceRule := grammar.NewRule("Choice", grammar.Sequence(
		grammar.RuleNode(sequenceRule),
		grammar.ZeroOrMore(grammar.Sequence(grammar.RuleNode(ws), grammar.Word("|"), grammar.RuleNode(sequenceRule))),
	))
	it.SetEvaluator(choiceRule, func(e interpreter.Expression[*grammar.Node, RuleGetter], args RuleGetter) *grammar.Node {
		if e.Size() == 1 {
			return e.At(0).Evaluate(args)
		}
		items := make([]*grammar.Node, e.Size())
		for i := range items {
			items[i] = e.At(i).Evaluate(args)
		}
		return grammar.Choice(items...)
	})

	expressionRule.Node = withWS(grammar.RuleNode(choiceRule))
	// Single child (Choice) -- default evaluator delegates correctly.

	return &program.Program[*grammar.Node, RuleGetter]{
		Parser:      parser.New(expressionRule),
		Interpreter: it,
	}
}
