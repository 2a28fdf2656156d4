package parser

import (
	"testing"

	"github.com/go-peg/pegx/grammar"
)

func mustParse(t *testing.T, input string, start *grammar.Rule) Result {
	t.Helper()
	res, err := Parse(input, start)
	if err != nil {
		t.Fatalf("Parse(%q) returned grammar error: %v", input, err)
	}
	return res
}

func TestOrderedChoicePicksFirstMatch(t *testing.T) {
	// CHOICE prefers its first alternative even when a later one would
	// consume more input.
	r := grammar.NewRule("r", grammar.Choice(grammar.Word("a"), grammar.Word("ab")))
	res := mustParse(t, "ab", r)
	if !res.Syntax.Valid {
		t.Fatalf("expected match")
	}
	if got, want := res.Syntax.Text(), "a"; got != want {
		t.Errorf("matched text = %q, want %q", got, want)
	}
}

func TestPredicatesAreNeutral(t *testing.T) {
	digit := grammar.Range('0', '9')
	r := grammar.NewRule("r", grammar.Sequence(
		grammar.Also(digit),
		grammar.Not(grammar.Word("x")),
		digit,
	))
	res := mustParse(t, "5", r)
	if !res.Syntax.Valid {
		t.Fatalf("expected match")
	}
	if got, want := res.Syntax.Text(), "5"; got != want {
		t.Errorf("matched text = %q, want %q (predicates must not consume)", got, want)
	}
}

func TestMemoizationReusesResult(t *testing.T) {
	calls := 0
	inner := grammar.NewRule("Inner", grammar.Sequence(
		grammar.Word("a"),
		grammar.FilterNode(func(f grammar.Frame) bool {
			calls++
			return true
		}),
	))
	top := grammar.NewRule("Top", grammar.Sequence(
		grammar.Also(grammar.RuleNode(inner)),
		grammar.RuleNode(inner),
	))
	res := mustParse(t, "a", top)
	if !res.Syntax.Valid {
		t.Fatalf("expected match")
	}
	if calls != 1 {
		t.Errorf("rule body evaluated %d times, want 1 (memoization should short-circuit the second reference)", calls)
	}
}

func TestHiddenRuleOmittedFromTree(t *testing.T) {
	ws := grammar.NewRule("WS", grammar.ZeroOrMore(grammar.Word(" ")))
	ws.Hidden = true
	word := grammar.NewRule("Word", grammar.OneOrMore(grammar.Range('a', 'z')))
	top := grammar.NewRule("Top", grammar.Sequence(
		grammar.RuleNode(word),
		grammar.RuleNode(ws),
		grammar.RuleNode(word),
	))
	res := mustParse(t, "ab cd", top)
	if !res.Syntax.Valid {
		t.Fatalf("expected match")
	}
	if got, want := len(res.Syntax.Child), 2; got != want {
		t.Fatalf("got %d children, want %d (hidden WS rule must not appear)", got, want)
	}
	if res.Syntax.Child[0].Text() != "ab" || res.Syntax.Child[1].Text() != "cd" {
		t.Errorf("unexpected children: %q, %q", res.Syntax.Child[0].Text(), res.Syntax.Child[1].Text())
	}
}

// buildLeftRecursiveSum builds Sum <- Sum '+' Digit | Digit, the canonical
// direct-left-recursive shape (A <- Aα | β).
func buildLeftRecursiveSum() *grammar.Rule {
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))
	sum := grammar.NewRule("Sum", grammar.Error())
	sum.Node = grammar.Choice(
		grammar.Sequence(grammar.RuleNode(sum), grammar.Word("+"), grammar.RuleNode(digit)),
		grammar.RuleNode(digit),
	)
	return sum
}

func TestLeftRecursionGrowsLeftAssociatively(t *testing.T) {
	sum := buildLeftRecursiveSum()
	res := mustParse(t, "1+2+3", sum)
	if !res.Syntax.Valid || res.Syntax.End != 5 {
		t.Fatalf("expected full match, got valid=%v end=%d", res.Syntax.Valid, res.Syntax.End)
	}
	// Sum(Sum(Sum(Digit),Digit),Digit) -- three Digit leaves overall.
	if got := countRule(res.Syntax, "Digit"); got != 3 {
		t.Errorf("counted %d Digit leaves, want 3", got)
	}
}

// buildLeftRecursiveSumTwoAlts builds A <- Aα | Aβ | γ, the shape with two
// recursive alternatives ahead of the base case.
func buildLeftRecursiveSumTwoAlts() *grammar.Rule {
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))
	sum := grammar.NewRule("Sum", grammar.Error())
	sum.Node = grammar.Choice(
		grammar.Sequence(grammar.RuleNode(sum), grammar.Word("+"), grammar.RuleNode(digit)),
		grammar.Sequence(grammar.RuleNode(sum), grammar.Word("-"), grammar.RuleNode(digit)),
		grammar.RuleNode(digit),
	)
	return sum
}

func TestLeftRecursionWithTwoRecursiveAlternatives(t *testing.T) {
	sum := buildLeftRecursiveSumTwoAlts()
	res := mustParse(t, "1+2-3", sum)
	if !res.Syntax.Valid || res.Syntax.End != 5 {
		t.Fatalf("expected full match, got valid=%v end=%d", res.Syntax.Valid, res.Syntax.End)
	}
}

func countRule(tree *SyntaxTree, name string) int {
	count := 0
	if tree.Rule != nil && tree.Rule.Name == name {
		count++
	}
	for _, c := range tree.Child {
		count += countRule(c, name)
	}
	return count
}

func TestWeakRuleFailsOnceDropped(t *testing.T) {
	target := grammar.NewRule("Target", grammar.Word("x"))
	top := grammar.NewRule("Top", grammar.WeakRuleNode(target))
	target.Drop()

	_, err := Parse("x", top)
	if err == nil {
		t.Fatalf("expected a grammar error after dropping the weakly-referenced rule")
	}
	if _, ok := err.(*grammar.GrammarError); !ok {
		t.Fatalf("got error of type %T, want *grammar.GrammarError", err)
	}
}

func TestFurthestErrorIsReported(t *testing.T) {
	// Top fails overall, but only after matching "ab" of its "abc" body --
	// the furthest-reaching failure should report that progress, not the
	// zero-width failure of an alternative that never got as far.
	top := grammar.NewRule("Top", grammar.Choice(
		grammar.Sequence(grammar.Word("ab"), grammar.Word("c")),
		grammar.Word("x"),
	))
	res := mustParse(t, "abd", top)
	if res.Syntax.Valid {
		t.Fatalf("expected overall parse to fail")
	}
	if res.Error == nil || res.Error.End < 2 {
		t.Fatalf("expected furthest error candidate to reach at least position 2, got %+v", res.Error)
	}
}
