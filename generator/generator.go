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

// Package generator lets a host build a grammar from PEG source text
// rather than assembling grammar.Node values by hand: it owns a named rule
// table, an optional separator rule, and the bootstrap self-grammar that
// turns a rule's source text into a grammar.Node.
package generator

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/interpreter"
	"github.com/go-peg/pegx/program"
)

// RuleGetter resolves a bare identifier in grammar source to the node that
// should stand for it — ordinarily a weak reference into the owning
// Generator's rule table, wrapped with the active separator if one is set.
type RuleGetter func(name string) *grammar.Node

// Generator is a Program plus the machinery to grow its grammar from
// source text: a name-keyed rule table (so forward references in grammar
// source resolve even before the referenced rule is defined), an optional
// separator rule spliced around every rule reference, and parsing of rule
// bodies through the bootstrap self-grammar.
type Generator[R, A any] struct {
	*program.Program[R, A]

	rules     map[string]*grammar.Rule
	ruleOrder []string
	separator *grammar.Rule
}

// New returns an empty Generator. Its start rule is the Program default
// ("undefined", always fails) until SetStart names a real rule.
func New[R, A any]() *Generator[R, A] {
	return &Generator[R, A]{
		Program: program.New[R, A](),
		rules:   make(map[string]*grammar.Rule),
	}
}

// Get returns the named rule, creating it (with an always-failing body) on
// first reference. This is how forward references resolve: grammar source
// mentioning a rule before it is defined gets a placeholder that SetRule
// later fills in, in place, without invalidating any node that already
// holds a reference to it.
func (g *Generator[R, A]) Get(name string) *grammar.Rule {
	if r, ok := g.rules[name]; ok {
		return r
	}
	r := grammar.NewRule(name, grammar.Error())
	g.rules[name] = r
	g.ruleOrder = append(g.ruleOrder, name)
	return r
}

// RuleNames lists the rules defined so far, in first-reference order.
func (g *Generator[R, A]) RuleNames() []string {
	out := make([]string, len(g.ruleOrder))
	copy(out, g.ruleOrder)
	return out
}

// ruleNode builds the node a bare identifier in grammar source resolves
// to: a weak reference to the named rule, wrapped in the active separator
// on both sides if one is set.
func (g *Generator[R, A]) ruleNode(name string) *grammar.Node {
	ref := grammar.WeakRuleNode(g.Get(name))
	if g.separator == nil {
		return ref
	}
	return grammar.Sequence(
		grammar.ZeroOrMore(grammar.RuleNode(g.separator)),
		ref,
		grammar.ZeroOrMore(grammar.RuleNode(g.separator)),
	)
}

// ParseRule compiles a grammar-source fragment (the right-hand side of a
// rule, not a whole "Name <- ..." line) into a grammar.Node, resolving any
// rule reference it contains through this Generator's rule table.
func (g *Generator[R, A]) ParseRule(source string) (*grammar.Node, error) {
	node, err := bootstrapProgram().Run(source, RuleGetter(g.ruleNode))
	if err != nil {
		return nil, fmt.Errorf("could not parse grammar expression %q: %w", source, err)
	}
	return node, nil
}

// SetRuleNode installs node as name's body directly, bypassing grammar
// source parsing, and sets its evaluator.
func (g *Generator[R, A]) SetRuleNode(name string, node *grammar.Node, cb interpreter.Callback[R, A]) *grammar.Rule {
	r := g.Get(name)
	r.Node = node
	g.Interpreter.SetEvaluator(r, cb)
	log.V(4).Infof("generator: set rule %s = %s", name, node)
	return r
}

// SetRule compiles source and installs it as name's body.
func (g *Generator[R, A]) SetRule(name, source string, cb interpreter.Callback[R, A]) (*grammar.Rule, error) {
	node, err := g.ParseRule(source)
	if err != nil {
		return nil, err
	}
	return g.SetRuleNode(name, node, cb), nil
}

// SetFilteredRule compiles source, appends a FILTER running predicate
// against the rule's own in-progress frame, and installs the result as
// name's body.
func (g *Generator[R, A]) SetFilteredRule(name, source string, predicate grammar.FilterFunc, cb interpreter.Callback[R, A]) (*grammar.Rule, error) {
	node, err := g.ParseRule(source)
	if err != nil {
		return nil, err
	}
	return g.SetRuleNode(name, grammar.Sequence(node, grammar.FilterNode(predicate)), cb), nil
}

// SetSeparator compiles source and installs it as the rule spliced around
// every subsequent rule reference compiled by this Generator (existing
// compiled rules are unaffected — separators apply at compile time, not
// parse time). The separator rule itself is always hidden.
func (g *Generator[R, A]) SetSeparator(source string) (*grammar.Rule, error) {
	node, err := g.ParseRule(source)
	if err != nil {
		return nil, err
	}
	r := g.Get("Separator")
	r.Node = node
	r.Hidden = true
	g.separator = r
	return r, nil
}

// SetSeparatorRule installs r directly as the separator rule, marking it
// hidden.
func (g *Generator[R, A]) SetSeparatorRule(r *grammar.Rule) {
	r.Hidden = true
	g.separator = r
}

// UnsetSeparator stops splicing a separator around subsequently-compiled
// rule references.
func (g *Generator[R, A]) UnsetSeparator() { g.separator = nil }

// SetStart makes name the grammar's start rule.
func (g *Generator[R, A]) SetStart(name string) {
	g.Parser.Start = g.Get(name)
}

// SetProgramRule installs sub as a sub-grammar reachable as name from this
// Generator's grammar. Because sub may have a different result and context
// type, this is a free function rather than a method — Go methods cannot
// introduce type parameters beyond their receiver's.
func SetProgramRule[R, A, R2, A2 any](g *Generator[R, A], name string, sub *program.Program[R2, A2], convert func(interpreter.Expression[R2, A2], A) R) *grammar.Rule {
	r := g.Get(name)
	r.Node = grammar.RuleNode(sub.Parser.Start)
	g.Interpreter.SetEvaluator(r, func(e interpreter.Expression[R, A], args A) R {
		child := e.Syntax().Child[0]
		inner := sub.Interpreter.Interpret(child)
		return convert(inner, args)
	})
	return r
}
