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

package parser

import (
	log "github.com/golang/glog"

	"github.com/go-peg/pegx/grammar"
)

// Parser binds a grammar's start rule. Parse never modifies it, and each
// Parse call allocates its own scratch state, so concurrent calls against
// the same Parser never interfere.
type Parser struct {
	Start *grammar.Rule
}

// New returns a Parser that parses from start.
func New(start *grammar.Rule) *Parser { return &Parser{Start: start} }

// Result is the outcome of one Parse call: the tree produced by the start
// rule, and the furthest-reaching failure encountered along the way (used
// to report syntax errors with the most useful position).
type Result struct {
	Syntax *SyntaxTree
	Error  *SyntaxTree
}

// Parse runs p against input. The only error this returns is a
// *grammar.GrammarError: an unknown node symbol or a dropped weak rule
// reference. An ordinary failed match is reported through Result, not err.
func (p *Parser) Parse(input string) (Result, error) {
	return Parse(input, p.Start)
}

// Parse runs start against input without requiring a Parser value.
func Parse(input string, start *grammar.Rule) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ge, ok := r.(*grammar.GrammarError); ok {
				err = ge
				return
			}
			panic(r)
		}
	}()

	s := newState(input, 0)
	log.V(4).Infof("parser: begin parsing %d bytes from rule %s", len(input), start.Name)
	tree := s.parseRule(start, true)
	result.Syntax = tree
	if s.errorTree != nil {
		result.Error = s.errorTree
	} else {
		result.Error = tree
	}
	return result, nil
}

// parseRule applies rule at the state's current position, memoizing the
// result when useCache is set. Left recursion is detected via the cache
// (a rule found active-but-not-yet-valid at its own start position is
// recursive) and resolved by seed-and-grow: the first, non-recursive
// alternative becomes the seed, then the rule is re-derived against a
// cache pinned to that seed, replacing it whenever the new derivation
// reaches further, until a derivation fails to improve on the last one.
func (s *state) parseRule(rule *grammar.Rule, useCache bool) *SyntaxTree {
	log.V(6).Infof("parser: enter rule %s at %d", rule.Name, s.position)

	useCache = useCache && rule.Cacheable
	key := cacheKey{pos: s.position, rule: rule}

	if useCache {
		if cached, ok := s.getCached(key); ok {
			if cached.Valid {
				s.addInner(cached)
				s.advanceTo(cached.End)
			} else if cached.Active && !cached.Recursive {
				cached.Recursive = true
				log.V(5).Infof("parser: left recursion detected in rule %s", rule.Name)
			}
			return cached
		}
	}

	tree := newSyntaxTree(rule, s.input, s.position)
	if useCache {
		s.setCached(key, tree)
	}

	saved := s.save()
	s.stack.Push(tree)
	tree.Valid = s.parseNode(rule.Node)
	tree.Active = false
	s.stack.Pop()

	if tree.Valid {
		tree.End = s.position
		if useCache && tree.Recursive {
			for {
				log.V(5).Infof("parser: growing left recursion for rule %s (end=%d)", rule.Name, tree.End)
				grow := newState(s.input, tree.Begin)
				grow.setCached(cacheKey{pos: tree.Begin, rule: rule}, tree)
				grown := grow.parseRule(rule, false)
				if grown.Valid && grown.End > tree.End {
					tree = grown
					s.setCached(key, tree)
					s.advanceTo(tree.End)
				} else {
					break
				}
			}
		}
		s.addInner(tree)
	} else {
		tree.End = s.maxPosition
		s.restore(saved)
		s.proposeError(tree)
	}

	log.V(6).Infof("parser: exit rule %s valid=%v", rule.Name, tree.Valid)
	return tree
}

// parseNode dispatches on n.Symbol, advancing s on success and always
// restoring s to its entry position (and the enclosing frame's child list
// to its entry length) on failure.
func (s *state) parseNode(n *grammar.Node) bool {
	switch n.Symbol {
	case grammar.SymWord:
		saved := s.save()
		for i := 0; i < len(n.Literal); i++ {
			c, ok := s.current()
			if !ok || c != n.Literal[i] {
				s.restore(saved)
				return false
			}
			s.advance(1)
		}
		return true

	case grammar.SymAny:
		if s.atEnd() {
			return false
		}
		s.advance(1)
		return true

	case grammar.SymRange:
		c, ok := s.current()
		if !ok || c < n.Lo || c > n.Hi {
			return false
		}
		s.advance(1)
		return true

	case grammar.SymSequence:
		saved := s.save()
		savedLen := s.childLen()
		for _, item := range n.Items {
			if !s.parseNode(item) {
				s.restore(saved)
				s.truncateChildren(savedLen)
				return false
			}
		}
		return true

	case grammar.SymChoice:
		saved := s.save()
		savedLen := s.childLen()
		for _, item := range n.Items {
			if s.parseNode(item) {
				return true
			}
			s.restore(saved)
			s.truncateChildren(savedLen)
		}
		return false

	case grammar.SymZeroOrMore:
		for s.parseNode(n.Inner) {
		}
		return true

	case grammar.SymOneOrMore:
		if !s.parseNode(n.Inner) {
			return false
		}
		for s.parseNode(n.Inner) {
		}
		return true

	case grammar.SymOptional:
		s.parseNode(n.Inner)
		return true

	case grammar.SymAlso:
		saved := s.save()
		savedLen := s.childLen()
		ok := s.parseNode(n.Inner)
		s.restore(saved)
		s.truncateChildren(savedLen)
		return ok

	case grammar.SymNot:
		saved := s.save()
		savedLen := s.childLen()
		ok := s.parseNode(n.Inner)
		s.restore(saved)
		s.truncateChildren(savedLen)
		return !ok

	case grammar.SymEmpty:
		return true

	case grammar.SymError:
		return false

	case grammar.SymEndOfFile:
		return s.atEnd()

	case grammar.SymRule:
		return s.parseRule(n.Rule, true).Valid

	case grammar.SymWeakRule:
		if n.Rule == nil || n.Rule.Dropped() {
			panic(&grammar.GrammarError{Kind: "INVALID_RULE", Node: n})
		}
		return s.parseRule(n.Rule, true).Valid

	case grammar.SymFilter:
		frame := s.top()
		if frame == nil {
			panic(&grammar.GrammarError{Kind: "INVALID_GRAMMAR", Node: n})
		}
		frame.End = s.position
		return n.Filter(frame)

	default:
		panic(&grammar.GrammarError{Kind: "UNKNOWN_SYMBOL", Node: n})
	}
}
