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

// Package grammar defines the grammar node model: the tagged operators a
// PEG expression tree is built from, and the rules that name them.
package grammar

// Symbol identifies which operator a Node represents, and therefore which
// of its payload fields is meaningful.
type Symbol int

const (
	SymWord Symbol = iota
	SymAny
	SymRange
	SymSequence
	SymChoice
	SymZeroOrMore
	SymOneOrMore
	SymOptional
	SymAlso
	SymNot
	SymEmpty
	SymError
	SymRule
	SymWeakRule
	SymEndOfFile
	SymFilter
)

func (s Symbol) String() string {
	switch s {
	case SymWord:
		return "WORD"
	case SymAny:
		return "ANY"
	case SymRange:
		return "RANGE"
	case SymSequence:
		return "SEQUENCE"
	case SymChoice:
		return "CHOICE"
	case SymZeroOrMore:
		return "ZERO_OR_MORE"
	case SymOneOrMore:
		return "ONE_OR_MORE"
	case SymOptional:
		return "OPTIONAL"
	case SymAlso:
		return "ALSO"
	case SymNot:
		return "NOT"
	case SymEmpty:
		return "EMPTY"
	case SymError:
		return "ERROR"
	case SymRule:
		return "RULE"
	case SymWeakRule:
		return "WEAK_RULE"
	case SymEndOfFile:
		return "END_OF_FILE"
	case SymFilter:
		return "FILTER"
	default:
		return "UNKNOWN_SYMBOL"
	}
}

// Frame is the narrow view a FILTER predicate gets of the rule currently
// being parsed: the rule, the span matched so far, and its text. It is
// satisfied structurally by parser.SyntaxTree; grammar never imports parser.
type Frame interface {
	FrameRule() *Rule
	FrameBegin() int
	FrameEnd() int
	FrameText() string
	FrameChildCount() int
}

// FilterFunc decides whether the current frame's parse should be accepted.
type FilterFunc func(Frame) bool

// Node is one operator in a grammar expression tree. Exactly one payload
// field is meaningful for a given Symbol; see the constructors below.
type Node struct {
	Symbol Symbol

	Literal string // SymWord
	Lo, Hi  byte   // SymRange
	Items   []*Node // SymSequence, SymChoice
	Inner   *Node   // SymZeroOrMore, SymOneOrMore, SymOptional, SymAlso, SymNot
	Rule    *Rule   // SymRule, SymWeakRule
	Filter  FilterFunc
}

func Word(s string) *Node { return &Node{Symbol: SymWord, Literal: s} }

func Any() *Node { return &Node{Symbol: SymAny} }

func Range(lo, hi byte) *Node { return &Node{Symbol: SymRange, Lo: lo, Hi: hi} }

func Sequence(items ...*Node) *Node { return &Node{Symbol: SymSequence, Items: items} }

func Choice(items ...*Node) *Node { return &Node{Symbol: SymChoice, Items: items} }

func ZeroOrMore(n *Node) *Node { return &Node{Symbol: SymZeroOrMore, Inner: n} }

func OneOrMore(n *Node) *Node { return &Node{Symbol: SymOneOrMore, Inner: n} }

func Optional(n *Node) *Node { return &Node{Symbol: SymOptional, Inner: n} }

// Also is the "&e" syntactic predicate: succeeds without consuming if e
// would succeed.
func Also(n *Node) *Node { return &Node{Symbol: SymAlso, Inner: n} }

// Not is the "!e" syntactic predicate: succeeds without consuming if e
// would fail.
func Not(n *Node) *Node { return &Node{Symbol: SymNot, Inner: n} }

// Empty always succeeds and consumes nothing.
func Empty() *Node { return &Node{Symbol: SymEmpty} }

// Error always fails and consumes nothing.
func Error() *Node { return &Node{Symbol: SymError} }

// EndOfFile succeeds only at the end of input.
func EndOfFile() *Node { return &Node{Symbol: SymEndOfFile} }

// RuleNode is a strong reference: it keeps r alive.
func RuleNode(r *Rule) *Node { return &Node{Symbol: SymRule, Rule: r} }

// WeakRuleNode is a non-owning reference: it does not keep r alive, and
// parsing it fails with a GrammarError once r has been Dropped.
func WeakRuleNode(r *Rule) *Node { return &Node{Symbol: SymWeakRule, Rule: r} }

// FilterNode runs f against the enclosing rule's in-progress frame.
func FilterNode(f FilterFunc) *Node { return &Node{Symbol: SymFilter, Filter: f} }

// GrammarError reports a defect in the grammar itself: an unrecognized node
// symbol, or a parse that dereferenced a dropped weak rule. It is never
// raised by an ordinary failed match.
type GrammarError struct {
	Kind string
	Node *Node
}

func (e *GrammarError) Error() string {
	return "internal error in grammar node (" + e.Kind + "): " + e.Node.String()
}
