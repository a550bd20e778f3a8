package printer_test

import (
	"strings"
	"testing"

	"github.com/cyrup-ai/go-yyaml/lexer"
	"github.com/cyrup-ai/go-yyaml/printer"
	"github.com/cyrup-ai/go-yyaml/token"
)

func TestPrintTokensReproducesSource(t *testing.T) {
	src := "a: 1\nb:\n  - x\n  - y\n"
	tokens, err := lexer.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var p printer.Printer
	got := p.PrintTokens(tokens)
	if got != src {
		t.Fatalf("printed = %q; want %q", got, src)
	}
}

func TestPrintTokensLineNumbers(t *testing.T) {
	tokens, err := lexer.Tokenize([]byte("a: 1\nb: 2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := printer.Printer{LineNumber: true}
	got := p.PrintTokens(tokens)
	if !strings.Contains(got, " 1 | ") || !strings.Contains(got, " 2 | ") {
		t.Fatalf("line numbers missing from %q", got)
	}
}

func TestPrintErrorToken(t *testing.T) {
	tokens, err := lexer.Tokenize([]byte("a: 1\nb: 2\nc: 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var target *token.Token
	for _, tk := range tokens {
		if tk.Value == "b" {
			target = tk
		}
	}
	if target == nil {
		t.Fatal("token not found")
	}
	var p printer.Printer
	got := p.PrintErrorToken(target, false)
	if !strings.Contains(got, "> 2 | ") {
		t.Fatalf("offending line marker missing from %q", got)
	}
	if !strings.Contains(got, "^") {
		t.Fatalf("column annotation missing from %q", got)
	}
}
