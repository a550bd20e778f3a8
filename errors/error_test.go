package errors_test

import (
	"strings"
	"testing"

	"golang.org/x/xerrors"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/token"
)

func plain(t *testing.T, err error) string {
	t.Helper()
	prevColored, prevSource := errors.ColoredErr, errors.WithSourceCode
	errors.ColoredErr, errors.WithSourceCode = false, false
	defer func() {
		errors.ColoredErr, errors.WithSourceCode = prevColored, prevSource
	}()
	return err.Error()
}

func TestSyntaxErrorRendering(t *testing.T) {
	tk := token.Invalid("boom", "@", &token.Position{Line: 3, Column: 7})
	err := errors.ErrSyntax(errors.InvalidCharacter, "found a reserved character", tk)
	got := plain(t, err)
	if !strings.HasPrefix(got, "3:7: InvalidCharacter: found a reserved character") {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestSyntaxErrorContextMark(t *testing.T) {
	open := token.FlowSequenceStart("[", &token.Position{Line: 1, Column: 5})
	tk := token.Invalid("eof", "", &token.Position{Line: 2, Column: 1})
	err := errors.ErrSyntax(errors.UnexpectedEOF, "did not find expected ']'", tk).WithContext(open)
	got := plain(t, err)
	if !strings.Contains(got, "1:5: while parsing the construct opened here") {
		t.Fatalf("context mark missing from %q", got)
	}
}

func TestErrorsAs(t *testing.T) {
	tk := token.Invalid("x", "", &token.Position{Line: 1, Column: 1})
	base := errors.ErrSyntax(errors.DuplicateKey, "dup", tk)
	wrapped := errors.Wrapf(base, "while loading")
	var syntaxErr *errors.SyntaxError
	if !xerrors.As(wrapped, &syntaxErr) {
		t.Fatal("wrapped syntax error must unwrap")
	}
	if syntaxErr.Kind != errors.DuplicateKey {
		t.Fatalf("kind = %s; want DuplicateKey", syntaxErr.Kind)
	}
}

func TestKindStrings(t *testing.T) {
	kinds := []errors.Kind{
		errors.InvalidCharacter, errors.InvalidIndent, errors.UnterminatedQuote,
		errors.InvalidEscape, errors.InvalidBlockScalarHeader, errors.TabInIndent,
		errors.UnexpectedToken, errors.UnexpectedEOF, errors.MixedBlockFlow,
		errors.InvalidDirective, errors.UndefinedAlias, errors.DuplicateAnchor,
		errors.DuplicateKey, errors.TypeMismatch, errors.ExpansionLimit,
		errors.DepthLimit, errors.SelfReferentialAlias, errors.InvalidUTF8,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "Unknown" {
			t.Fatalf("missing String for kind %d", int(k))
		}
		if seen[s] {
			t.Fatalf("duplicate String %q", s)
		}
		seen[s] = true
	}
}
