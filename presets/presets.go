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

// Package presets builds ready-made Programs for a handful of common
// leaf grammars: integers, floating point numbers, hex digits, single
// characters (with escapes) and delimited strings. Every preset builds its
// grammar directly out of grammar.Node constructors, the same way the
// bootstrap self-grammar does, rather than parsing its own grammar text.
package presets

import (
	"strconv"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/interpreter"
	"github.com/go-peg/pegx/program"
)

func digit() *grammar.Node { return grammar.Range('0', '9') }

// Integer builds a Program that parses an optionally-signed run of decimal
// digits into an int.
func Integer() *program.Program[int, struct{}] {
	rule := grammar.NewRule("Integer", grammar.Sequence(
		grammar.Optional(grammar.Word("-")),
		grammar.OneOrMore(digit()),
	))
	p := program.New[int, struct{}]()
	p.Parser.Start = rule
	p.Interpreter.SetEvaluator(rule, func(e interpreter.Expression[int, struct{}], _ struct{}) int {
		n, _ := strconv.Atoi(e.View())
		return n
	})
	return p
}

func floatNode() *grammar.Node {
	exponent := grammar.Sequence(
		grammar.Choice(grammar.Word("e"), grammar.Word("E")),
		grammar.Optional(grammar.Word("-")),
		grammar.OneOrMore(digit()),
	)
	return grammar.Sequence(
		grammar.Optional(grammar.Word("-")),
		grammar.OneOrMore(digit()),
		grammar.Optional(grammar.Sequence(grammar.Word("."), grammar.OneOrMore(digit()))),
		grammar.Optional(exponent),
	)
}

// Float builds a Program that parses a signed decimal number with an
// optional fractional part and exponent into a float32.
func Float() *program.Program[float32, struct{}] {
	rule := grammar.NewRule("Float", floatNode())
	p := program.New[float32, struct{}]()
	p.Parser.Start = rule
	p.Interpreter.SetEvaluator(rule, func(e interpreter.Expression[float32, struct{}], _ struct{}) float32 {
		f, _ := strconv.ParseFloat(e.View(), 32)
		return float32(f)
	})
	return p
}

// Double builds the same grammar as Float, evaluated into a float64.
func Double() *program.Program[float64, struct{}] {
	rule := grammar.NewRule("Double", floatNode())
	p := program.New[float64, struct{}]()
	p.Parser.Start = rule
	p.Interpreter.SetEvaluator(rule, func(e interpreter.Expression[float64, struct{}], _ struct{}) float64 {
		f, _ := strconv.ParseFloat(e.View(), 64)
		return f
	})
	return p
}

// Hex builds a Program that parses a run of hexadecimal digits into an
// int64.
func Hex() *program.Program[int64, struct{}] {
	rule := grammar.NewRule("Hex", grammar.OneOrMore(grammar.Choice(
		grammar.Range('0', '9'),
		grammar.Range('a', 'f'),
		grammar.Range('A', 'F'),
	)))
	p := program.New[int64, struct{}]()
	p.Parser.Start = rule
	p.Interpreter.SetEvaluator(rule, func(e interpreter.Expression[int64, struct{}], _ struct{}) int64 {
		n, _ := strconv.ParseInt(e.View(), 16, 64)
		return n
	})
	return p
}

// EscapeCodeCallback maps a single character following a backslash (other
// than a hex escape) to the rune it stands for. DefaultEscapeCodeCallback
// covers 'n', 't' and '0'; anything else maps to itself.
type EscapeCodeCallback func(code byte) rune

// DefaultEscapeCodeCallback implements the three escapes the reference
// grammar recognizes directly (\n, \t, \0); every other escaped character
// stands for itself (so "\\" is a backslash, "\'" is a quote, and so on).
func DefaultEscapeCodeCallback(code byte) rune {
	switch code {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	default:
		return rune(code)
	}
}

// Character builds a Program that parses one source character: a \<hex>
// escape (a backslash directly followed by hex digits, no "x" token), a
// \<code> escape resolved through escapeCode, or a literal byte.
func Character(escapeCode EscapeCodeCallback) *program.Program[rune, struct{}] {
	if escapeCode == nil {
		escapeCode = DefaultEscapeCodeCallback
	}

	hex := Hex()

	escapedHex := grammar.NewRule("EscapedHex", grammar.Sequence(grammar.Word(`\`), grammar.RuleNode(hex.Parser.Start)))
	escaped := grammar.NewRule("Escaped", grammar.Sequence(grammar.Word(`\`), grammar.Any()))
	plain := grammar.NewRule("PlainChar", grammar.Any())

	rule := grammar.NewRule("Character", grammar.Choice(
		grammar.RuleNode(escapedHex),
		grammar.RuleNode(escaped),
		grammar.RuleNode(plain),
	))

	p := program.New[rune, struct{}]()
	p.Parser.Start = rule

	p.Interpreter.SetEvaluator(escapedHex, func(e interpreter.Expression[rune, struct{}], _ struct{}) rune {
		n, _ := strconv.ParseInt(e.View()[1:], 16, 32)
		return rune(n)
	})
	p.Interpreter.SetEvaluator(escaped, func(e interpreter.Expression[rune, struct{}], _ struct{}) rune {
		return escapeCode(e.View()[1])
	})
	p.Interpreter.SetEvaluator(plain, func(e interpreter.Expression[rune, struct{}], _ struct{}) rune {
		return rune(e.View()[0])
	})
	return p
}

// String builds a Program that parses everything between open and close
// (not themselves Character-escaped) into the unescaped string they
// delimit, e.g. String("\"", "\"") for C-style double-quoted strings.
func String(open, close string) *program.Program[string, struct{}] {
	character := Character(nil)

	rule := grammar.NewRule("String", grammar.Sequence(
		grammar.Word(open),
		grammar.ZeroOrMore(grammar.Sequence(grammar.Not(grammar.Word(close)), grammar.RuleNode(character.Parser.Start))),
		grammar.Word(close),
	))

	p := program.New[string, struct{}]()
	p.Parser.Start = rule
	p.Interpreter.SetEvaluator(rule, func(e interpreter.Expression[string, struct{}], args struct{}) string {
		runes := make([]rune, 0, e.Size())
		for i := 0; i < e.Size(); i++ {
			runes = append(runes, interpreter.EvaluateBy(e.At(i), character.Interpreter, args))
		}
		return string(runes)
	})
	return p
}
