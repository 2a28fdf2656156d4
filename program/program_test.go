package program

import (
	"testing"

	"github.com/go-peg/pegx/grammar"
	"github.com/go-peg/pegx/interpreter"
)

func TestRunEvaluatesFullMatch(t *testing.T) {
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))

	p := New[int, struct{}]()
	p.Parser.Start = digit
	p.Interpreter.SetEvaluator(digit, func(e interpreter.Expression[int, struct{}], _ struct{}) int {
		return int(e.View()[0] - '0')
	})

	got, err := p.Run("7", struct{}{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 7 {
		t.Errorf("Run() = %d, want 7", got)
	}
}

func TestRunReturnsSyntaxErrorOnPartialMatch(t *testing.T) {
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))
	p := New[int, struct{}]()
	p.Parser.Start = digit

	_, err := p.Run("7x", struct{}{})
	if err == nil {
		t.Fatalf("expected a syntax error for unconsumed trailing input")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got error of type %T, want *SyntaxError", err)
	}
}

func TestRunReturnsSyntaxErrorOnFailedMatch(t *testing.T) {
	digit := grammar.NewRule("Digit", grammar.Range('0', '9'))
	p := New[int, struct{}]()
	p.Parser.Start = digit

	_, err := p.Run("x", struct{}{})
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got error of type %T, want *SyntaxError", err)
	}
}

func TestNewProgramStartRuleAlwaysFails(t *testing.T) {
	p := New[int, struct{}]()
	_, err := p.Run("anything", struct{}{})
	if err == nil {
		t.Fatalf("expected the placeholder 'undefined' start rule to fail")
	}
}
