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

import (
	"fmt"
	"strings"
)

// String renders n back into grammar source syntax. It is the only
// printing surface this package owns. For a node compiled from grammar
// source with no separator active, parsing the rendered text through the
// self-grammar gives a node with the same rendering. FILTER nodes, dropped
// rule references, and word literals containing a quote or backslash
// (which are not escaped) render to text the self-grammar does not accept.
func (n *Node) String() string {
	switch n.Symbol {
	case SymWord:
		return "'" + n.Literal + "'"
	case SymAny:
		return "."
	case SymRange:
		return fmt.Sprintf("[%c-%c]", n.Lo, n.Hi)
	case SymSequence:
		return "(" + joinNodes(n.Items, " ") + ")"
	case SymChoice:
		return "(" + joinNodes(n.Items, " | ") + ")"
	case SymZeroOrMore:
		return n.Inner.String() + "*"
	case SymOneOrMore:
		return n.Inner.String() + "+"
	case SymOptional:
		return n.Inner.String() + "?"
	case SymAlso:
		return "&" + n.Inner.String()
	case SymNot:
		return "!" + n.Inner.String()
	case SymEmpty:
		return "''"
	case SymError:
		return "[]"
	case SymEndOfFile:
		return "<EOF>"
	case SymFilter:
		return "<Filter>"
	case SymRule, SymWeakRule:
		if n.Rule == nil || n.Rule.Dropped() {
			return "<DeletedRule>"
		}
		return n.Rule.Name
	default:
		return "<UnknownSymbol>"
	}
}

func joinNodes(items []*Node, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}
