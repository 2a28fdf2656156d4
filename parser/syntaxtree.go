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

// Package parser turns a grammar rule and an input string into a concrete
// syntax tree, with packrat memoization and direct left-recursion support.
package parser

import (
	"fmt"
	"strings"

	"github.com/go-peg/pegx/grammar"
)

// SyntaxTree is one parsed rule application: the span of input it covers,
// whether the match succeeded, and the non-hidden rule applications nested
// inside it.
type SyntaxTree struct {
	Rule      *grammar.Rule
	FullInput string
	Child     []*SyntaxTree
	Begin     int
	End       int
	Valid     bool
	Active    bool
	Recursive bool
}

func newSyntaxTree(rule *grammar.Rule, input string, pos int) *SyntaxTree {
	return &SyntaxTree{Rule: rule, FullInput: input, Begin: pos, End: pos, Active: true}
}

// Length is the number of bytes this tree's span covers.
func (t *SyntaxTree) Length() int { return t.End - t.Begin }

// Text is the slice of the original input this tree covers.
func (t *SyntaxTree) Text() string { return t.FullInput[t.Begin:t.End] }

// FrameRule, FrameBegin, FrameEnd, FrameText and FrameChildCount satisfy
// grammar.Frame, so a
// *SyntaxTree can be passed directly to a grammar.FilterFunc.
func (t *SyntaxTree) FrameRule() *grammar.Rule { return t.Rule }
func (t *SyntaxTree) FrameBegin() int          { return t.Begin }
func (t *SyntaxTree) FrameEnd() int            { return t.End }
func (t *SyntaxTree) FrameText() string        { return t.Text() }
func (t *SyntaxTree) FrameChildCount() int     { return len(t.Child) }

func (t *SyntaxTree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(", t.Rule.Name)
	if len(t.Child) == 0 {
		fmt.Fprintf(&b, "%q", t.Text())
	} else {
		for i, c := range t.Child {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(c.String())
		}
	}
	b.WriteByte(')')
	return b.String()
}
