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
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/go-peg/pegx/grammar"
)

// cacheKey is the packrat memoization key: a byte position paired with the
// rule attempted there. Both fields are natively comparable, so a plain Go
// map is the whole memo table; no hashing helper is needed.
type cacheKey struct {
	pos  int
	rule *grammar.Rule
}

// state is the scratch state for a single Parse call: position, the
// furthest position reached, the memo table, and the chain of active rule
// frames. It is never stored on a long-lived value, so concurrent Parse
// calls against the same grammar never share one.
type state struct {
	input       string
	position    int
	maxPosition int
	cache       map[cacheKey]*SyntaxTree
	stack       *linkedliststack.Stack
	errorTree   *SyntaxTree
}

func newState(input string, start int) *state {
	return &state{
		input:       input,
		position:    start,
		maxPosition: start,
		cache:       make(map[cacheKey]*SyntaxTree),
		stack:       linkedliststack.New(),
	}
}

func (s *state) top() *SyntaxTree {
	v, ok := s.stack.Peek()
	if !ok {
		return nil
	}
	return v.(*SyntaxTree)
}

func (s *state) save() int { return s.position }

func (s *state) restore(p int) { s.position = p }

func (s *state) advance(n int) { s.advanceTo(s.position + n) }

func (s *state) advanceTo(pos int) {
	if pos > len(s.input) {
		pos = len(s.input)
	}
	s.position = pos
	if pos > s.maxPosition {
		s.maxPosition = pos
	}
}

func (s *state) atEnd() bool { return s.position >= len(s.input) }

func (s *state) current() (byte, bool) {
	if s.position >= len(s.input) {
		return 0, false
	}
	return s.input[s.position], true
}

func (s *state) getCached(key cacheKey) (*SyntaxTree, bool) {
	t, ok := s.cache[key]
	return t, ok
}

func (s *state) setCached(key cacheKey, t *SyntaxTree) { s.cache[key] = t }

func (s *state) childLen() int {
	t := s.top()
	if t == nil {
		return 0
	}
	return len(t.Child)
}

func (s *state) truncateChildren(n int) {
	t := s.top()
	if t == nil {
		return
	}
	t.Child = t.Child[:n]
}

// addInner attaches tree as a child of the enclosing rule frame, unless
// tree's rule is hidden (separators never appear in the tree).
func (s *state) addInner(tree *SyntaxTree) {
	if tree.Rule.Hidden {
		return
	}
	parent := s.top()
	if parent == nil {
		return
	}
	parent.Child = append(parent.Child, tree)
}

// proposeError records tree as the new furthest-failure candidate, per the
// "deepest failure wins, ties go to the later proposal" rule. Hidden rules
// and zero-length spans are never proposed.
func (s *state) proposeError(tree *SyntaxTree) {
	if tree.Rule.Hidden {
		return
	}
	if tree.End <= tree.Begin {
		return
	}
	if s.errorTree == nil || tree.End >= s.errorTree.End {
		s.errorTree = tree
	}
}
