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

package grammar

// Rule names a grammar expression and carries the two parser-visible
// flags: Hidden rules never appear as children in a syntax tree (used for
// whitespace/separator rules), and Cacheable controls whether the parser
// memoizes it (and, as a side effect, whether it can take part in direct
// left recursion at all).
type Rule struct {
	Name      string
	Node      *Node
	Hidden    bool
	Cacheable bool

	dropped bool
}

// NewRule builds a rule around node. Rules are cacheable by default; a
// generator that wants an always-fresh rule (e.g. one depending on mutable
// external state read through a Filter) can clear Cacheable after the fact.
func NewRule(name string, node *Node) *Rule {
	return &Rule{Name: name, Node: node, Cacheable: true}
}

// Drop marks the rule deleted: weak references to it render as
// "<DeletedRule>" and fail to parse with a GrammarError. Strong references
// still hold the rule alive and keep parsing it normally — Drop only
// changes how WEAK_RULE sees it.
func (r *Rule) Drop() { r.dropped = true }

// Dropped reports whether Drop has been called.
func (r *Rule) Dropped() bool { return r.dropped }
