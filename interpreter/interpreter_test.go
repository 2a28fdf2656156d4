package interpreter

import (
	"testing"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/parser"
)

func buildSumTree(t *testing.T, input string) *parser.SyntaxTree {
	t.Helper()
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))
	sum := grammar.NewRule("Sum", grammar.Sequence(
		grammar.RuleNode(digit),
		grammar.ZeroOrMore(grammar.Sequence(grammar.Word("+"), grammar.RuleNode(digit))),
	))
	res, err := parser.Parse(input, sum)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	if !res.Syntax.Valid || res.Syntax.End != len(input) {
		t.Fatalf("Parse(%q) did not fully match: %+v", input, res.Syntax)
	}
	return res.Syntax
}

func TestEvaluateSumsDigits(t *testing.T) {
	tree := buildSumTree(t, "1+2+3")

	it := New[int, struct{}]()
	it.SetEvaluator(tree.Child[0].Rule, func(e Expression[int, struct{}], _ struct{}) int {
		return int(e.View()[0] - '0')
	})
	it.SetEvaluator(tree.Rule, func(e Expression[int, struct{}], args struct{}) int {
		sum := 0
		for i := 0; i < e.Size(); i++ {
			sum += e.At(i).Evaluate(args)
		}
		return sum
	})

	total := it.Evaluate(tree, struct{}{})
	if total != 6 {
		t.Errorf("Evaluate() = %d, want 6", total)
	}
}

func TestDefaultEvaluatorReturnsLastChild(t *testing.T) {
	a := grammar.NewRule("A", grammar.Word("a"))
	b := grammar.NewRule("B", grammar.Word("b"))
	top := grammar.NewRule("Top", grammar.Sequence(grammar.RuleNode(a), grammar.RuleNode(b)))

	res, err := parser.Parse("ab", top)
	if err != nil || !res.Syntax.Valid {
		t.Fatalf("Parse: valid=%v err=%v", res.Syntax.Valid, err)
	}

	it := New[string, struct{}]()
	it.SetEvaluator(a, func(e Expression[string, struct{}], _ struct{}) string { return "A:" + e.View() })
	it.SetEvaluator(b, func(e Expression[string, struct{}], _ struct{}) string { return "B:" + e.View() })

	got := it.Evaluate(res.Syntax, struct{}{})
	if want := "B:b"; got != want {
		t.Errorf("default evaluator returned %q, want %q (should evaluate all but last, return last)", got, want)
	}
}

func TestMissingEvaluatorRaisesInterpreterError(t *testing.T) {
	leaf := grammar.NewRule("Leaf", grammar.Word("x"))
	res, err := parser.Parse("x", leaf)
	if err != nil || !res.Syntax.Valid {
		t.Fatalf("Parse: valid=%v err=%v", res.Syntax.Valid, err)
	}

	it := New[int, struct{}]()
	// No evaluator for Leaf, zero children, R=int is not the void
	// sentinel -- must panic with an *InterpreterError.
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected a panic from the default evaluator")
			}
			if _, ok := r.(*InterpreterError); !ok {
				t.Fatalf("got panic of type %T, want *InterpreterError", r)
			}
		}()
		it.Evaluate(res.Syntax, struct{}{})
	}()
}

func TestVoidConventionSkipsInterpreterError(t *testing.T) {
	leaf := grammar.NewRule("Leaf", grammar.Word("x"))
	res, err := parser.Parse("x", leaf)
	if err != nil || !res.Syntax.Valid {
		t.Fatalf("Parse: valid=%v err=%v", res.Syntax.Valid, err)
	}

	it := New[struct{}, struct{}]()
	// No evaluator, zero children, but R is struct{} (the void
	// convention) -- must return the zero value, not panic.
	it.Evaluate(res.Syntax, struct{}{})
}
